package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the {success, data|message} wrapper every endpoint answers with.
// Login responses carry token and admin at the top level.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Token   string          `json:"token,omitempty"`
	Admin   *Admin          `json:"admin,omitempty"`
}

// Err converts an unsuccessful envelope into a *RejectedError.
func (e Envelope) Err(path string) error {
	if e.Success {
		return nil
	}
	return &RejectedError{Path: path, Message: e.Message}
}

// Decode unmarshals the data payload into v.
func (e Envelope) Decode(v interface{}) error {
	if len(e.Data) == 0 || bytes.Equal(e.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// ID accepts both numeric and string identifiers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("id: want string or number, got %s", b)
		}
		*id = ID(n.String())
	}
	return nil
}

// RuleRefs holds a product's rules. The server may send rule names, ids or
// whole rule objects; objects are reduced to their name, else their id.
type RuleRefs []string

func (r *RuleRefs) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	out := make(RuleRefs, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var rule struct {
				ID   ID     `json:"id"`
				Name string `json:"name"`
			}
			if err := json.Unmarshal(item, &rule); err != nil {
				return fmt.Errorf("rules: %w", err)
			}
			if rule.Name != "" {
				out = append(out, rule.Name)
			} else if rule.ID != "" {
				out = append(out, string(rule.ID))
			}
			continue
		}
		var id ID
		if err := id.UnmarshalJSON(item); err != nil {
			return fmt.Errorf("rules: %w", err)
		}
		if id != "" {
			out = append(out, string(id))
		}
	}
	*r = out
	return nil
}

type Admin struct {
	ID       ID     `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string
	Admin Admin
}

type Stats struct {
	TotalCustomers   int `json:"total_customers"`
	ActiveLicenses   int `json:"active_licenses"`
	TotalProducts    int `json:"total_products"`
	ValidationsToday int `json:"validations_today"`
}

type SystemHealth struct {
	AvgResponseTime float64 `json:"avg_response_time"`
}

type Dashboard struct {
	Stats        Stats        `json:"stats"`
	SystemHealth SystemHealth `json:"system_health"`
}

type Customer struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type NewCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Product struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Rules       RuleRefs `json:"rules,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

type NewProduct struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Rules       []string `json:"rules"`
}

type License struct {
	ID           ID     `json:"id"`
	LicenseKey   string `json:"license_key"`
	CustomerName string `json:"customer_name,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	Status       string `json:"status"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

type Rule struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type SecurityEvent struct {
	ID          ID     `json:"id"`
	Type        string `json:"event_type"`
	Severity    string `json:"severity"`
	IPAddress   string `json:"ip_address,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}
