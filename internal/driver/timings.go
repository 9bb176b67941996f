package driver

import (
	"encoding/json"
	"fmt"

	"wstok/internal/diag"
	"wstok/internal/observ"
	"wstok/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings adds an ObsTimings info diagnostic carrying the timer report
// as a JSON note. The bag limit does not apply to it.
func AppendTimings(bag *diag.Bag, kind, path string, timer *observ.Timer) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	payload := timingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	if payload.Kind == "" {
		payload.Kind = "tokenize"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Primary:  source.Span{},
		Notes: []diag.Note{
			{Span: source.Span{}, Msg: string(data)},
		},
	}

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	bag.Merge(overflow)
}
