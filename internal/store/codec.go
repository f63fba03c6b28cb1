package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/metalagman/brandcraft/internal/pipeline"
)

type reportDoc struct {
	Title           string          `json:"title"`
	BrandIdentity   pipeline.Result `json:"brand_identity"`
	UniqueStrengths pipeline.Result `json:"unique_strengths"`
	TargetAudience  pipeline.Result `json:"target_audience"`
	ContentStrategy pipeline.Result `json:"content_strategy"`
	LaunchPlan      pipeline.Result `json:"launch_plan"`
}

// EncodeReport serialises a report as JSON with one key per section.
func EncodeReport(report *pipeline.FinalReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("encode report: nil report")
	}
	data, err := json.MarshalIndent(reportDoc{
		Title:           report.Title,
		BrandIdentity:   report.BrandIdentity,
		UniqueStrengths: report.UniqueStrengths,
		TargetAudience:  report.TargetAudience,
		ContentStrategy: report.ContentStrategy,
		LaunchPlan:      report.LaunchPlan,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// DecodeReport reverses EncodeReport. Integral numbers come back as int;
// lists come back as []any.
func DecodeReport(data []byte) (*pipeline.FinalReport, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc reportDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &pipeline.FinalReport{
		Title:           doc.Title,
		BrandIdentity:   restoreResult(doc.BrandIdentity),
		UniqueStrengths: restoreResult(doc.UniqueStrengths),
		TargetAudience:  restoreResult(doc.TargetAudience),
		ContentStrategy: restoreResult(doc.ContentStrategy),
		LaunchPlan:      restoreResult(doc.LaunchPlan),
	}, nil
}

func restoreResult(r pipeline.Result) pipeline.Result {
	if r == nil {
		return nil
	}
	out := make(pipeline.Result, len(r))
	for k, v := range r {
		out[k] = restoreNumbers(v)
	}
	return out
}

func restoreNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = restoreNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = restoreNumbers(item)
		}
		return t
	default:
		return v
	}
}
