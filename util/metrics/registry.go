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
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// MetricName describes the name and description of a single metric
type MetricName struct {
	Name        string
	Description string
}

var (
	// InvokerSignatureOK counts invoker signatures that verified.
	InvokerSignatureOK = MetricName{Name: "invoker_verify_invoker_ok", Description: "Total invoker signatures accepted"}
	// InvokerSignatureRejected counts invoker signatures that did not verify.
	InvokerSignatureRejected = MetricName{Name: "invoker_verify_invoker_rej", Description: "Total invoker signatures rejected"}
	// MessageSignatureOK counts presigned messages that verified.
	MessageSignatureOK = MetricName{Name: "invoker_verify_message_ok", Description: "Total presigned message signatures accepted"}
	// MessageSignatureRejected counts presigned messages that did not verify.
	MessageSignatureRejected = MetricName{Name: "invoker_verify_message_rej", Description: "Total presigned message signatures rejected"}
	// EnvelopeRejected counts rejected envelopes by error kind.
	EnvelopeRejected = MetricName{Name: "invoker_verify_envelope_rej", Description: "Envelopes rejected during validation, by error kind"}
	// LedgerInvocationsApplied counts invocations committed to the ledger.
	LedgerInvocationsApplied = MetricName{Name: "invoker_ledger_invocations_applied", Description: "Total invocations applied to the ledger"}
	// LedgerInvocationsRejected counts rejected invocations by error kind.
	LedgerInvocationsRejected = MetricName{Name: "invoker_ledger_invocations_rej", Description: "Invocations rejected by the evaluator, by error kind"}
)

// Registry is a set of metrics that can be exposed together.
type Registry struct {
	reg *prometheus.Registry
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry package level metrics live in.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{reg: prometheus.NewRegistry()}
}

// WriteMetrics writes every metric in the registry to buf in Prometheus
// text exposition format.
func (r *Registry) WriteMetrics(buf *strings.Builder) error {
	mfs, err := r.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(buf, mf); err != nil {
			return err
		}
	}
	return nil
}

var sanitizeCharactersRegexp = regexp.MustCompile("(^[^a-zA-Z_]|[^a-zA-Z0-9_-])")

// sanitizePrometheusName ensures a metric name doesn't contain any
// non-alphanumeric characters (apart from _) and doesn't start with a number.
func sanitizePrometheusName(name string) string {
	return strings.ReplaceAll(sanitizeCharactersRegexp.ReplaceAllString(name, "_"), "-", "_")
}
