package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
)

// Source is what ValidateScripts inspects. quill.Engine satisfies it.
type Source interface {
	Scripts(ctx context.Context) ([]string, error)
	Script(ctx context.Context, id string) (domain.Script, error)
	Parse(text string) ([]domain.Token, error)
}

// ValidateScripts loads every script of src and parses each of its parts,
// reporting every failure at once.
func ValidateScripts(ctx context.Context, src Source) error {
	ids, err := src.Scripts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scripts: %w", err)
	}

	var errors []string
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		script, err := src.Script(ctx, id)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if _, err := domain.ParseMode(string(script.Mode)); err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", id, err))
		}
		for i, part := range script.Parts {
			if _, err := src.Parse(part); err != nil {
				errors = append(errors, fmt.Sprintf("%s: part %d: %v", id, i+1, err))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
