package memory_test

import (
	"testing"

	"github.com/aretw0/quill/pkg/adapters/memory"
	"github.com/aretw0/quill/pkg/domain"
	contract "github.com/aretw0/quill/pkg/ports/tests"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	contract.RunPresetStoreContract(t, memory.NewStore())
}

func TestLoader_Contract(t *testing.T) {
	scripts := []domain.Script{
		{ID: "intro", Mode: domain.ModeDialogue, Parts: []string{"Hello", "<wobble>World</wobble>"}},
		{ID: "outro", Mode: domain.ModeAuto, Parts: []string{"Bye"}},
	}
	loader, err := memory.NewLoader(scripts...)
	require.NoError(t, err)

	contract.RunScriptLoaderContract(t, loader, scripts)
}

func TestNewLoader_MissingID(t *testing.T) {
	_, err := memory.NewLoader(domain.Script{Parts: []string{"x"}})
	require.Error(t, err)
}
