package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jataidesja-hub/gerenciamento/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Portuguese characters should pass through unchanged.
	input := "Nome do Cliente;Valor Total\nJoão;1.200,00\nConceição;500,00\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "Cliente;José\n" (é = 0xE9).
	input := []byte{
		'C', 'l', 'i', 'e', 'n', 't', 'e', ';',
		'J', 'o', 's', 0xE9, '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Cliente;José\n", string(got))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Nº Parcela;Situação\n")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Nº Parcela;Situação\n", string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	text := "Cliente\n"

	buf := []byte{0xFF, 0xFE}
	for _, r := range text {
		buf = append(buf, byte(r), 0x00)
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(buf))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, text, string(got))
}
