package insight

import (
	"bytes"
	"text/template"

	"ledgerly/internal/core"
)

// Entry is the per-transaction projection sent to the model.
type Entry struct {
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
}

// Payload is the request body for one insight call.
type Payload struct {
	Transactions []Entry `json:"transactions"`
}

// BuildPayload keeps only the fields the model needs, in list order.
func BuildPayload(txs []core.Transaction) Payload {
	p := Payload{Transactions: make([]Entry, 0, len(txs))}
	for _, t := range txs {
		p.Transactions = append(p.Transactions, Entry{
			Date:        t.Date.String(),
			Description: t.Description,
			Amount:      t.Amount,
			Category:    t.Category,
		})
	}
	return p
}

var promptTemplate = template.Must(template.New("insights").Parse(
	`You are a personal finance advisor. Analyze the following transaction data and provide a summary of spending habits, highlighting any trends or anomalies.

Transaction Data:
{{range .Transactions}}Date: {{.Date}}, Description: {{.Description}}, Amount: {{.Amount}}, Category: {{.Category}}
{{end}}
Provide your analysis in a structured format. Do not use hyphens in your response. Your entire response must be a single JSON object with exactly these fields:

1.  "summary": A concise one or two sentence overview of the user's spending habits.
2.  "observations": A list of 2 to 3 key observations or trends.
3.  "suggestions": A list of 2 to 3 actionable suggestions for financial improvement.
`))

// Prompt renders the instruction text for p.
func Prompt(p Payload) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
