// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"sync/atomic"

	"github.com/algorand/go-deadlock"
	"github.com/prometheus/client_golang/prometheus"
)

// Counter represent a single counter variable.
type Counter struct {
	pc    prometheus.Counter
	value atomic.Uint64
}

// MakeCounter create a new counter with the provided name and description,
// registered with the default registry.
func MakeCounter(metric MetricName) *Counter {
	return DefaultRegistry().MakeCounter(metric)
}

// MakeCounter creates a counter registered with r.
func (r *Registry) MakeCounter(metric MetricName) *Counter {
	c := &Counter{pc: prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitizePrometheusName(metric.Name),
		Help: metric.Description,
	})}
	r.reg.MustRegister(c.pc)
	return c
}

// Inc increases counter by 1
func (counter *Counter) Inc() {
	counter.AddUint64(1)
}

// AddUint64 increases counter by x
func (counter *Counter) AddUint64(x uint64) {
	counter.value.Add(x)
	counter.pc.Add(float64(x))
}

// GetUint64Value returns the value of the counter.
func (counter *Counter) GetUint64Value() uint64 {
	return counter.value.Load()
}

// TagCounter holds a set of counters keyed by a tag, such as an error kind.
type TagCounter struct {
	vec *prometheus.CounterVec

	tagLock deadlock.Mutex
	tags    map[string]uint64
}

// NewTagCounter makes a tagged counter registered with the default registry.
func NewTagCounter(metric MetricName, tagName string) *TagCounter {
	return DefaultRegistry().NewTagCounter(metric, tagName)
}

// NewTagCounter makes a tagged counter registered with r.
func (r *Registry) NewTagCounter(metric MetricName, tagName string) *TagCounter {
	tc := &TagCounter{
		vec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: sanitizePrometheusName(metric.Name),
			Help: metric.Description,
		}, []string{tagName}),
		tags: make(map[string]uint64),
	}
	r.reg.MustRegister(tc.vec)
	return tc
}

// Add t[tag] += val, multithread safe
func (tc *TagCounter) Add(tag string, val uint64) {
	tc.tagLock.Lock()
	tc.tags[tag] += val
	tc.tagLock.Unlock()
	tc.vec.WithLabelValues(tag).Add(float64(val))
}

// GetValue returns the count for tag.
func (tc *TagCounter) GetValue(tag string) uint64 {
	tc.tagLock.Lock()
	defer tc.tagLock.Unlock()
	return tc.tags[tag]
}
