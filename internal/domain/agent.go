package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AgentCodePrefix and AgentCodeDigits define the sequential agent code format,
// e.g. "AGT000001".
const (
	AgentCodePrefix = "AGT"
	AgentCodeDigits = 6
)

// Agent is a partner travel agent managed from the admin dashboard.
// Code is assigned once at creation and never changes.
type Agent struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Email     string
	Phone     string
	Company   string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgentFilter narrows an agent listing. Search matches name, email, or code.
type AgentFilter struct {
	Search string
	Active *bool
}

// AgentPatch is a partial update. Only non-nil fields are applied.
type AgentPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Company  *string
	Address  *string
	IsActive *bool
}

// Apply returns a copy of a with every non-nil patch field written over it.
func (p AgentPatch) Apply(a Agent) Agent {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.Company != nil {
		a.Company = *p.Company
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	return a
}

// AgentStats holds aggregate counts for the admin dashboard.
type AgentStats struct {
	Total    int
	Active   int
	Inactive int
}

// NextAgentCode returns the code following last. An empty last yields the
// first code in the sequence.
func NextAgentCode(last string) (string, error) {
	n := 0
	if last != "" {
		digits, ok := strings.CutPrefix(last, AgentCodePrefix)
		if !ok {
			return "", fmt.Errorf("malformed agent code %q", last)
		}
		v, err := strconv.Atoi(digits)
		if err != nil {
			return "", fmt.Errorf("malformed agent code %q: %w", last, err)
		}
		n = v
	}
	return fmt.Sprintf("%s%0*d", AgentCodePrefix, AgentCodeDigits, n+1), nil
}
