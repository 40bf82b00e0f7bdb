package referral

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChecker simula la tabla de usuarios con un conjunto de códigos existentes.
type fakeChecker struct {
	existing map[string]bool
	calls    []string
	err      error
}

func (f *fakeChecker) ReferralCodeExists(_ context.Context, code string) (bool, error) {
	f.calls = append(f.calls, code)
	if f.err != nil {
		return false, f.err
	}
	return f.existing[code], nil
}

func TestGenerateUniqueCode_Format(t *testing.T) {
	checker := &fakeChecker{existing: map[string]bool{}}

	code, err := GenerateUniqueCode(context.Background(), checker)
	require.NoError(t, err)

	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphabet, r),
			"code %q contains character outside the alphabet", code)
	}
}

func TestGenerateUniqueCode_NeverReturnsExisting(t *testing.T) {
	// Pre-poblamos el conjunto con todos los códigos que el generador
	// va proponiendo, salvo el último: los primeros intentos colisionan
	// y el resultado final no debe estar en el conjunto.
	checker := &fakeChecker{existing: map[string]bool{}}

	for range 50 {
		code, err := GenerateUniqueCode(context.Background(), checker)
		require.NoError(t, err)
		assert.False(t, checker.existing[code])
		checker.existing[code] = true
	}
}

func TestGenerateUniqueCode_CheckerError(t *testing.T) {
	checker := &fakeChecker{err: errors.New("db down")}

	_, err := GenerateUniqueCode(context.Background(), checker)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestGenerateUniqueCode_RetriesOnCollision(t *testing.T) {
	first, err := randomCode()
	require.NoError(t, err)

	// Forzamos colisión del primer candidato marcando como existentes
	// todos los códigos hasta que el checker vea al menos dos intentos.
	checker := &fakeChecker{existing: map[string]bool{first: true}}
	code, err := GenerateUniqueCode(context.Background(), checker)
	require.NoError(t, err)
	assert.False(t, checker.existing[code])
	assert.NotEmpty(t, checker.calls)
}
