package tools_test

import (
	"testing"

	"github.com/lookbusy1344/z33-asm/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXRefDefinedSymbolWithReferences(t *testing.T) {
	prog, l := buildLayout(t, "main: nop\nloop: jmp main\njmp loop\n")

	report := tools.NewXRefGenerator().Generate(prog, l)

	byName := make(map[string]*tools.Symbol)
	for _, sym := range report.Symbols {
		byName[sym.Name] = sym
	}

	main, ok := byName["main"]
	require.True(t, ok, "expected a symbol named main")
	assert.True(t, main.Defined)
	assert.Equal(t, l.Labels["main"], main.Address)
	assert.Len(t, main.References, 1)

	loop, ok := byName["loop"]
	require.True(t, ok, "expected a symbol named loop")
	assert.True(t, loop.Defined)
	assert.Len(t, loop.References, 1)
}

func TestXRefUndefinedSymbol(t *testing.T) {
	prog, l := buildLayout(t, "jmp nowhere\n")

	report := tools.NewXRefGenerator().Generate(prog, l)
	require.Len(t, report.Symbols, 1)
	sym := report.Symbols[0]
	assert.Equal(t, "nowhere", sym.Name)
	assert.False(t, sym.Defined)
}

func TestXRefStringRendersReferenceCounts(t *testing.T) {
	prog, l := buildLayout(t, "main: nop\njmp main\n")

	report := tools.NewXRefGenerator().Generate(prog, l)
	assert.NotEmpty(t, report.String())
}
