// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiExtractor implements adapter.PaymentExtractor using Google Gemini vision.
type GeminiExtractor struct {
	apiKey    string
	modelName string
	timeout   time.Duration
}

// NewGeminiExtractor creates a new Gemini payment extractor.
func NewGeminiExtractor(apiKey, modelName string, timeout time.Duration) *GeminiExtractor {
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiExtractor{
		apiKey:    apiKey,
		modelName: modelName,
		timeout:   timeout,
	}
}

// IsAvailable checks if the Gemini extractor is properly configured.
func (s *GeminiExtractor) IsAvailable() bool {
	return s.apiKey != ""
}

// Extract reads the payment lines of one payment proof.
func (s *GeminiExtractor) Extract(ctx context.Context, document adapter.Document) ([]valueobject.ExtractedPayment, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini extractor is not configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: document.MIMEType, Data: document.Data},
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	payments, err := parseExtractionResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	for i := range payments {
		payments[i].Document = document.Name
	}
	return payments, nil
}

const extractionPrompt = `Tu es un assistant de back-office specialise dans le rapprochement des paiements de coupons obligataires.

Le document joint est un justificatif de paiement (avis de virement, releve bancaire, capture d'ecran d'ordre de virement).
Releve CHAQUE paiement visible dans le document.

Pour chaque paiement, indique :
- "beneficiary" : le nom du beneficiaire tel qu'il est ecrit (personne ou societe)
- "amount" : le montant en euros, nombre decimal avec un point (ex : 1234.56)
- "date" : la date d'execution telle qu'elle est ecrite (ex : 15/04/2025)
- "reference" : la reference ou le libelle du virement, ou null si absent

REGLES :
- N'invente aucune valeur. Si un champ est illisible, utilise null.
- Ne fusionne pas deux paiements differents.
- Ignore les soldes, les totaux et les frais bancaires.

FORMAT DE REPONSE : retourne uniquement un tableau JSON, sans texte additionnel :
[{"beneficiary": "...", "amount": 0.0, "date": "...", "reference": null}]
`

// geminiPayment represents one payment line returned by Gemini.
type geminiPayment struct {
	Beneficiary *string         `json:"beneficiary"`
	Amount      json.RawMessage `json:"amount"`
	Date        *string         `json:"date"`
	Reference   *string         `json:"reference"`
}

// parseExtractionResponse parses the Gemini response. Lines without a beneficiary
// or a positive readable amount are dropped.
func parseExtractionResponse(resp *genai.GenerateContentResponse) ([]valueobject.ExtractedPayment, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}

	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimSpace(textContent)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var lines []geminiPayment
	if err := json.Unmarshal([]byte(textContent), &lines); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	payments := make([]valueobject.ExtractedPayment, 0, len(lines))
	for _, line := range lines {
		beneficiary := trimmed(line.Beneficiary)
		if beneficiary == "" {
			continue
		}

		amount, ok := parseAmount(line.Amount)
		if !ok || !amount.IsPositive() {
			continue
		}

		payment := valueobject.ExtractedPayment{
			Beneficiary: beneficiary,
			Amount:      amount,
			Date:        trimmed(line.Date),
		}
		if ref := trimmed(line.Reference); ref != "" {
			payment.Reference = &ref
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

// parseAmount accepts a JSON number or a string such as "1 234,56 €", "1.234,56" or "1,234.56".
func parseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, false
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false
		}
	} else {
		text = string(raw)
	}

	text = strings.NewReplacer(
		" ", "",
		" ", "",
		" ", "",
		"€", "",
		"EUR", "",
		"eur", "",
	).Replace(text)

	// The last separator is the decimal mark: 1.234,56 and 1,234.56 both read 1234.56.
	comma, dot := strings.LastIndex(text, ","), strings.LastIndex(text, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		text = strings.ReplaceAll(text, ".", "")
		text = strings.Replace(text, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		text = strings.ReplaceAll(text, ",", "")
	case comma >= 0:
		text = strings.Replace(text, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
