package memory_test

import (
	"testing"

	"github.com/aretw0/gobarber/pkg/adapters/memory"
	"github.com/aretw0/gobarber/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunKeyValueStoreContract(t, store)
}
