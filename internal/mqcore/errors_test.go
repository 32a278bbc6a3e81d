package mqcore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Prefix(t *testing.T) {
	for _, err := range []error{ErrClosed, ErrNoAccessPoint} {
		assert.True(t, strings.HasPrefix(err.Error(), "mq:"),
			"error %q should have 'mq:' prefix", err.Error())
	}
}
