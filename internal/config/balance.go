package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fastygo/todowa/domain"
)

// Balance is the tunable part of the reward system.
type Balance struct {
	Levels domain.LevelTable
	Rules  domain.Rules
}

type balanceFile struct {
	Levels []domain.LevelTier `yaml:"levels"`
	Rules  *domain.Rules      `yaml:"rules"`
}

// DefaultBalance returns the stock level ladder and reward rules.
func DefaultBalance() Balance {
	return Balance{
		Levels: domain.DefaultLevelTable(),
		Rules:  domain.DefaultRules(),
	}
}

// LoadBalance reads a YAML balance file. An empty path or a missing file yields the
// defaults; sections left out of the file keep their defaults too.
func LoadBalance(path string) (Balance, error) {
	if path == "" {
		return DefaultBalance(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultBalance(), nil
	}
	if err != nil {
		return Balance{}, fmt.Errorf("read balance file: %w", err)
	}
	return ParseBalance(data)
}

// ParseBalance decodes and validates a balance document.
func ParseBalance(data []byte) (Balance, error) {
	var file balanceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Balance{}, fmt.Errorf("parse balance file: %w", err)
	}

	balance := DefaultBalance()
	if len(file.Levels) > 0 {
		table, err := domain.NewLevelTable(file.Levels)
		if err != nil {
			return Balance{}, fmt.Errorf("balance levels: %w", err)
		}
		balance.Levels = table
	}
	if file.Rules != nil {
		if err := file.Rules.Validate(); err != nil {
			return Balance{}, fmt.Errorf("balance rules: %w", err)
		}
		balance.Rules = *file.Rules
	}
	return balance, nil
}
