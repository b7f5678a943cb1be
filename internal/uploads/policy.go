// Package uploads decides which files the API accepts: an extension
// whitelist and a size cap, loaded from an embedded policy file at
// startup.
package uploads

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"docshare/internal/domain"
)

//go:embed policy.yaml
var policyFile []byte

// Policy is the loaded upload policy.
type Policy struct {
	MaxSizeBytes      int64    `yaml:"max_size_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions"`

	allowed map[string]struct{}
}

// LoadPolicy parses the embedded policy file.
func LoadPolicy() (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(policyFile, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upload policy: %w", err)
	}

	if p.MaxSizeBytes <= 0 {
		return nil, fmt.Errorf("upload policy: max_size_bytes must be positive")
	}
	if len(p.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("upload policy: no allowed extensions")
	}

	p.allowed = make(map[string]struct{}, len(p.AllowedExtensions))
	for _, ext := range p.AllowedExtensions {
		p.allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &p, nil
}

// Check validates an upload's file name and size against the policy.
// Violations are validation errors, never upstream ones.
func (p *Policy) Check(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := p.allowed[ext]; !ok {
		return fmt.Errorf("%w: file type %q is not allowed (only documents, media files and archives)", domain.ErrValidation, ext)
	}

	if size > p.MaxSizeBytes {
		return fmt.Errorf("%w: file exceeds the %d byte size limit", domain.ErrValidation, p.MaxSizeBytes)
	}

	return nil
}
