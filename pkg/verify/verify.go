// Package verify composes the extraction router, compliance engine, and
// anomaly detector into the single verify_lease operation the protocol
// layer exposes as a tool and a JSON-RPC response shape.
package verify

import (
	"fmt"
	"strings"

	"github.com/docforge/docforge/pkg/compliance"
	"github.com/docforge/docforge/pkg/compliance/florida"
	"github.com/docforge/docforge/pkg/extract"
)

// Status is the overall verdict of a verification run.
type Status string

const (
	StatusCompliant             Status = "compliant"
	StatusCompliantWithWarnings Status = "compliant_with_warnings"
	StatusNonCompliant          Status = "non_compliant"
)

// ComplianceCheck is one reported violation alongside its statute.
type ComplianceCheck struct {
	Statute  string              `json:"statute"`
	Severity compliance.Severity `json:"severity"`
	Message  string              `json:"message"`
	Snippet  string              `json:"text_snippet,omitempty"`
}

// Summary totals the report's findings.
type Summary struct {
	TotalViolations int    `json:"total_violations"`
	Critical        int    `json:"critical"`
	Warnings        int    `json:"warnings"`
	AnomaliesFound  int    `json:"anomalies_found"`
	Status          Status `json:"status"`
}

// Report is the verify_lease tool's response payload.
type Report struct {
	ComplianceChecks []ComplianceCheck    `json:"compliance_checks"`
	Anomalies        []compliance.Anomaly `json:"anomalies"`
	Summary          Summary              `json:"summary"`
	BackendUsed      string               `json:"backend_used"`
	FallbackOccurred bool                 `json:"fallback_occurred"`
}

// Verifier wires extraction, compliance, and anomaly detection together.
// Built once per process; both the engine and the router hold no mutable
// per-call state, so a Verifier is safe for concurrent use.
type Verifier struct {
	router *extract.Router
	engine *compliance.Engine
}

// New builds a Verifier with the Florida state pack registered, the only
// jurisdiction verify_lease currently accepts.
func New() (*Verifier, error) {
	engine, err := compliance.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("verify: building compliance engine: %w", err)
	}
	engine.RegisterState("FL", florida.Rules()...)

	return &Verifier{
		router: extract.NewRouter(),
		engine: engine,
	}, nil
}

// VerifyLease extracts text from pdfBytes, runs the compliance engine for
// state, and optionally runs the structural anomaly sweep.
func (v *Verifier) VerifyLease(pdfBytes []byte, state string, detectAnomalies bool) (*Report, error) {
	stateCode, err := normalizeState(state)
	if err != nil {
		return nil, err
	}

	extraction, err := v.router.Extract(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("verify: extraction failed: %w", err)
	}

	text := joinPages(extraction.Pages)

	violations, err := v.engine.Check(text, compliance.Context{
		Jurisdiction: compliance.Jurisdiction{StateCode: stateCode},
		DocType:      compliance.DocTypeAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("verify: compliance check failed: %w", err)
	}

	var anomalies []compliance.Anomaly
	if detectAnomalies {
		anomalies = compliance.DetectAnomalies(text, compliance.FloridaResidentialLease())
	}

	return &Report{
		ComplianceChecks: toChecks(violations),
		Anomalies:        anomalies,
		Summary:          summarize(violations, anomalies),
		BackendUsed:      extraction.BackendUsed,
		FallbackOccurred: extraction.FallbackOccurred,
	}, nil
}

func normalizeState(state string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "", "florida", "fl":
		return "FL", nil
	default:
		return "", fmt.Errorf("verify: unsupported state %q", state)
	}
}

func joinPages(pages []extract.PageContent) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.RawText)
	}
	return b.String()
}

func toChecks(violations []compliance.Violation) []ComplianceCheck {
	checks := make([]ComplianceCheck, 0, len(violations))
	for _, v := range violations {
		checks = append(checks, ComplianceCheck{
			Statute:  v.Statute,
			Severity: v.Severity,
			Message:  v.Message,
			Snippet:  v.TextSnippet,
		})
	}
	return checks
}

func summarize(violations []compliance.Violation, anomalies []compliance.Anomaly) Summary {
	s := Summary{TotalViolations: len(violations), AnomaliesFound: len(anomalies)}
	for _, v := range violations {
		switch v.Severity {
		case compliance.Critical:
			s.Critical++
		case compliance.Warning:
			s.Warnings++
		}
	}

	switch {
	case s.Critical > 0:
		s.Status = StatusNonCompliant
	case s.Warnings > 0 || s.AnomaliesFound > 0:
		s.Status = StatusCompliantWithWarnings
	default:
		s.Status = StatusCompliant
	}
	return s
}
