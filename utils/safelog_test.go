package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskString(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"contato ana@example.com", "contato ***@***.***"},
		{"pagamento R$ 1.234,56 confirmado", "pagamento R$ *** confirmado"},
		{"cpf 123.456.789-01", "cpf ***.***.***-**"},
		{"cartão 4111 1111 1111 1111", "cartão ****-****-****-****"},
		{"sem nada sensível", "sem nada sensível"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MaskString(tc.input), "MaskString(%q)", tc.input)
	}
}

func TestMaskID(t *testing.T) {
	assert.Equal(t, "12345678...", MaskID("123456789abcdef"))
	assert.Equal(t, "***", MaskID("short"))
}

func TestMaskingHook(t *testing.T) {
	log := logrus.New()
	log.AddHook(NewMaskingHook())

	entry := logrus.NewEntry(log).WithField("email", "ana@example.com")
	entry.Message = "user ana@example.com logged"

	hook := NewMaskingHook()
	require.NoError(t, hook.Fire(entry))

	assert.Equal(t, "user ***@***.*** logged", entry.Message)
	assert.Equal(t, "***@***.***", entry.Data["email"])
}
