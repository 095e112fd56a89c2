// Package messages holds the user-facing notification texts. The built-in
// English texts can be overridden from a JSON file of the same shape.
package messages

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

//go:embed messages.json
var defaultJSON []byte

// MessageText is a title and body with {name} placeholders.
type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Render fills the {name} placeholders of the body from vars. Unknown
// placeholders are left as they are.
func (m MessageText) Render(vars map[string]string) (title, body string) {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return m.Title, strings.NewReplacer(pairs...).Replace(m.Body)
}

type Messages struct {
	LimitExceeded      MessageText `json:"limit_exceeded"`
	GoalReached        MessageText `json:"goal_reached"`
	PurchaseAffordable MessageText `json:"purchase_affordable"`
}

var (
	defaults    Messages
	defaultOnce sync.Once
)

// Default returns the built-in texts.
func Default() *Messages {
	defaultOnce.Do(func() {
		if err := json.Unmarshal(defaultJSON, &defaults); err != nil {
			panic(fmt.Sprintf("messages: invalid embedded messages.json: %v", err))
		}
	})
	m := defaults
	return &m
}

// Load reads an override file. Texts missing from the file keep their
// default; an empty path returns the defaults.
func Load(path string) (*Messages, error) {
	m := Default()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	return m, nil
}
