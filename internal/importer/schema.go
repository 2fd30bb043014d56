// Package importer reads YAML seed files describing users, projects and their
// tasks, budgets and transactions.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the top-level YAML document. Users are referenced elsewhere by
// email; budgets are referenced by ref within their project.
type SeedFile struct {
	Users    []UserSeed    `yaml:"users"`
	Projects []ProjectSeed `yaml:"projects"`
}

type UserSeed struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`
	Role      string `yaml:"role,omitempty"`
	Inactive  bool   `yaml:"inactive,omitempty"`
}

type ProjectSeed struct {
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description,omitempty"`
	Owner        string            `yaml:"owner"`
	Status       string            `yaml:"status,omitempty"`
	StartDate    *string           `yaml:"start_date,omitempty"`
	EndDate      *string           `yaml:"end_date,omitempty"`
	Location     *LocationSeed     `yaml:"location,omitempty"`
	Members      []MemberSeed      `yaml:"members,omitempty"`
	Tasks        []TaskSeed        `yaml:"tasks,omitempty"`
	Budgets      []BudgetSeed      `yaml:"budgets,omitempty"`
	Transactions []TransactionSeed `yaml:"transactions,omitempty"`
}

type LocationSeed struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Name      string  `yaml:"name,omitempty"`
}

type MemberSeed struct {
	Email string `yaml:"email"`
	Role  string `yaml:"role,omitempty"`
}

type TaskSeed struct {
	Title          string  `yaml:"title"`
	Description    string  `yaml:"description,omitempty"`
	Assignee       string  `yaml:"assignee,omitempty"`
	Status         string  `yaml:"status,omitempty"`
	Priority       string  `yaml:"priority,omitempty"`
	DueDate        *string `yaml:"due_date,omitempty"`
	EstimatedHours *int    `yaml:"estimated_hours,omitempty"`
}

type BudgetSeed struct {
	Ref         string `yaml:"ref"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Amount      string `yaml:"amount"`
	Currency    string `yaml:"currency,omitempty"`
	Category    string `yaml:"category"`
	PeriodStart string `yaml:"period_start"`
	PeriodEnd   string `yaml:"period_end"`
}

type TransactionSeed struct {
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	Currency    string `yaml:"currency,omitempty"`
	Type        string `yaml:"type"`
	Date        string `yaml:"date,omitempty"`
	Budget      string `yaml:"budget,omitempty"`
	RecordedBy  string `yaml:"recorded_by"`
	Notes       string `yaml:"notes,omitempty"`
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document. Unknown keys are rejected so typos
// surface instead of being silently dropped.
func ParseSeed(data []byte) (*SeedFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var seed SeedFile
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &seed, nil
}
