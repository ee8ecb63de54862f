package reminder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSubstitutesAllVariables(t *testing.T) {
	tmpl := "Hi {clientName}, invoice {invoiceNumber} for {amount} is due {dueDate}."
	vars := map[string]string{
		"clientName":    "Acme GmbH",
		"invoiceNumber": "INV-001",
		"amount":        "USD 1,250.00",
		"dueDate":       "June 1, 2025",
	}
	out := Render(tmpl, vars)
	assert.Equal(t, "Hi Acme GmbH, invoice INV-001 for USD 1,250.00 is due June 1, 2025.", out)
	assert.NotContains(t, out, "{")
}

func TestRenderDropsWholeLineForBlankValue(t *testing.T) {
	tmpl := "Hi {clientName}\n{invoiceLink}\nBye"
	out := Render(tmpl, map[string]string{"invoiceLink": ""})
	assert.Equal(t, "Hi {clientName}\nBye", out)
}

func TestRenderDropsIndentedPlaceholderLine(t *testing.T) {
	tmpl := "Header\n   {invoiceLink}   \nFooter"
	out := Render(tmpl, map[string]string{"invoiceLink": ""})
	assert.Equal(t, "Header\nFooter", out)
}

func TestRenderClearsInlineBlankOccurrences(t *testing.T) {
	tmpl := "See {invoiceLink} for details"
	out := Render(tmpl, map[string]string{"invoiceLink": ""})
	assert.Equal(t, "See  for details", out)
}

func TestRenderCollapsesNewlineRuns(t *testing.T) {
	tmpl := "Hello {clientName}\n\n{invoiceLink}\n\nBye"
	out := Render(tmpl, map[string]string{
		"clientName":  "Acme",
		"invoiceLink": "",
	})
	assert.Equal(t, "Hello Acme\n\nBye", out)
	assert.NotContains(t, out, "\n\n\n")
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	tmpl := "Hi {clientName}, ref {customField}"
	out := Render(tmpl, map[string]string{"clientName": "Acme"})
	assert.Equal(t, "Hi Acme, ref {customField}", out)
}

func TestRenderOrderIndependentWhenValuesContainTokens(t *testing.T) {
	vars := map[string]string{
		"clientName":    "{invoiceNumber}",
		"invoiceNumber": "INV-7",
	}
	// Sorted application order: clientName injects the token, invoiceNumber
	// then resolves both occurrences, every run.
	for i := 0; i < 10; i++ {
		out := Render("{clientName} / {invoiceNumber}", vars)
		assert.Equal(t, "INV-7 / INV-7", out)
	}
}

func TestRenderTrimsResult(t *testing.T) {
	tmpl := "\n\n{invoiceLink}\nBody text\n\n\n"
	out := Render(tmpl, map[string]string{"invoiceLink": ""})
	assert.Equal(t, "Body text", out)
}

func TestRenderBaselineTemplatesFullyResolve(t *testing.T) {
	vars := map[string]string{
		"clientName":    "Acme GmbH",
		"invoiceNumber": "INV-42",
		"amount":        "EUR 99.00",
		"currency":      "EUR",
		"dueDate":       "March 1, 2025",
		"daysOverdue":   "7",
		"invoiceLink":   "https://pay.example.com/inv-42",
	}
	for _, b := range baselineTemplates {
		subject := Render(b.Subject, vars)
		body := Render(b.Body, vars)
		assert.False(t, strings.Contains(subject, "{"), "unresolved token in %s subject: %q", b.Name, subject)
		assert.False(t, strings.Contains(body, "{"), "unresolved token in %s body: %q", b.Name, body)
	}
}
