package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateSubscriptionReceipt   = "subscription_receipt"
	TemplateSubscriptionCancelled = "subscription_cancelled"
	TemplatePropertyApproved      = "property_approved"
)

var builtinTemplates = map[string]string{
	TemplateSubscriptionReceipt: `<p>Hi {{.Name}},</p>
<p>Your <strong>{{.Plan}}</strong> plan is active until {{.EndDate}}.</p>
<p>Amount paid: {{.Price}} {{.Currency}} (reference {{.PaymentReference}}).</p>
<p>You can now see owner contact details on every listing.</p>`,
	TemplateSubscriptionCancelled: `<p>Hi {{.Name}},</p>
<p>Your <strong>{{.Plan}}</strong> subscription has been cancelled.</p>`,
	TemplatePropertyApproved: `<p>Hi {{.Name}},</p>
<p>Your listing "{{.Title}}" is now live on Rentify.</p>`,
}

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		// builtin templates are static; a parse error is a programming error
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
