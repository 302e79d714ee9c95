package adapters

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}

func TestParseExtractionResponse(t *testing.T) {
	body := "```json\n" + `[
		{"beneficiary": "M. Jean Dupont", "amount": 140, "date": "15/04/2025", "reference": "VIR-42"},
		{"beneficiary": "ACME SAS", "amount": "1 234,56 €", "date": "2025-04-15", "reference": ""},
		{"beneficiary": "  ", "amount": 10, "date": null, "reference": null},
		{"beneficiary": "Illisible", "amount": null, "date": null, "reference": null},
		{"beneficiary": "Frais", "amount": -2.5, "date": null, "reference": null}
	]` + "\n```"

	payments, err := parseExtractionResponse(textResponse(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d: %+v", len(payments), payments)
	}

	first := payments[0]
	if first.Beneficiary != "M. Jean Dupont" || !first.Amount.Equal(decimal.NewFromInt(140)) {
		t.Errorf("unexpected first payment: %+v", first)
	}
	if first.Date != "15/04/2025" || first.Reference == nil || *first.Reference != "VIR-42" {
		t.Errorf("unexpected first payment details: %+v", first)
	}

	second := payments[1]
	if !second.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("expected 1234.56, got %s", second.Amount)
	}
	if second.Reference != nil {
		t.Errorf("expected empty reference to be nil, got %q", *second.Reference)
	}
}

func TestParseExtractionResponse_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "no text", resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}},
		{name: "invalid json", resp: textResponse("Voici les paiements : aucun")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseExtractionResponse(tt.resp); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseExtractionResponse_EmptyArray(t *testing.T) {
	payments, err := parseExtractionResponse(textResponse("[]"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("expected no payments, got %d", len(payments))
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{raw: `140`, want: "140", wantOK: true},
		{raw: `140.5`, want: "140.5", wantOK: true},
		{raw: `"140,50"`, want: "140.5", wantOK: true},
		{raw: `"1 234,56 €"`, want: "1234.56", wantOK: true},
		{raw: `"1.234,56"`, want: "1234.56", wantOK: true},
		{raw: `"1234.56 EUR"`, want: "1234.56", wantOK: true},
		{raw: `"1,234.56"`, want: "1234.56", wantOK: true},
		{raw: `"12,345.00 EUR"`, want: "12345", wantOK: true},
		{raw: `"1.234.567,89"`, want: "1234567.89", wantOK: true},
		{raw: `"1,234,567.89"`, want: "1234567.89", wantOK: true},
		{raw: "\"1 234,56\"", want: "1234.56", wantOK: true},
		{raw: `null`, wantOK: false},
		{raw: `"n/a"`, wantOK: false},
		{raw: ``, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseAmount(json.RawMessage(tt.raw))
			if ok != tt.wantOK {
				t.Fatalf("parseAmount(%s) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("parseAmount(%s) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestGeminiExtractor_NotConfigured(t *testing.T) {
	extractor := NewGeminiExtractor("", "", 0)

	if extractor.IsAvailable() {
		t.Error("expected extractor without API key to be unavailable")
	}
	if extractor.modelName != defaultGeminiModel {
		t.Errorf("expected default model, got %s", extractor.modelName)
	}
	if _, err := extractor.Extract(context.Background(), adapter.Document{Name: "a.pdf"}); err == nil {
		t.Error("expected error when not configured")
	}
}
