package xmlenc

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEmitterNesting(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	err := e.Element("project", func() error {
		if err := e.TextElement("description", "test project"); err != nil {
			return err
		}
		return e.ClassedElement("triggers", "vector", nil)
	})
	require.NoError(t, err)
	require.NoError(t, e.Close())

	expected := "<project>\n" +
		"  <description>test project</description>\n" +
		"  <triggers class=\"vector\"></triggers>\n" +
		"</project>"
	require.Equal(t, expected, buf.String())
}

func TestEmitterClosesElementOnBodyFailure(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	bodyErr := errors.New("bad field value")
	err := e.Element("project", func() error {
		return e.Element("scm", func() error {
			return bodyErr
		})
	})
	require.Equal(t, bodyErr, errors.Cause(err))

	// The failed body must not leave dangling open tags behind.
	require.Equal(t, 0, e.Depth())
	require.NoError(t, e.Close())
	require.Contains(t, buf.String(), "</scm>")
	require.Contains(t, buf.String(), "</project>")
}

func TestEmitterEmptyAndBoolElements(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	err := e.Element("project", func() error {
		if err := e.EmptyElement("actions"); err != nil {
			return err
		}
		return e.BoolElement("disabled", false)
	})
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.Contains(t, buf.String(), "<actions></actions>")
	require.Contains(t, buf.String(), "<disabled>false</disabled>")
}

func TestEmitterRawFragmentPassesThroughUnescaped(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	err := e.Element("project", func() error {
		return e.Raw("<jdk>(System)</jdk>")
	})
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.Contains(t, buf.String(), "<jdk>(System)</jdk>")
}

func TestEmitterEscapesText(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	err := e.TextElement("command", `echo "a < b"`)
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.Equal(t, "<command>echo &#34;a &lt; b&#34;</command>", buf.String())
}

func TestEmitterDeterministicOutput(t *testing.T) {
	render := func() string {
		var buf bytes.Buffer
		e := NewEmitter(&buf)
		err := e.Element("project", func() error {
			return e.TextElement("description", "stable")
		})
		require.NoError(t, err)
		require.NoError(t, e.Close())
		return buf.String()
	}
	require.Equal(t, render(), render())
}
