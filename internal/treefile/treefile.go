// Package treefile loads tree descriptions from disk and maps failures to
// coded errors.
package treefile

import (
	stderrors "errors"
	"os"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Load reads and decodes the tree description at path. The codec is picked
// from the file extension.
func Load(path string) (*vdom.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E002").
			WithLocation(path, 0, 0).
			WithSuggestion("Check the path and file permissions").
			Wrap(err)
	}
	return Decode(path, data, vdom.CodecFor(path))
}

// Decode decodes data with codec. name is used for error locations and
// may be empty.
func Decode(name string, data []byte, codec vdom.Codec) (*vdom.VNode, error) {
	node, err := vdom.Decode(data, codec)
	if err == nil {
		return node, nil
	}

	var e *errors.Error
	if stderrors.Is(err, vdom.ErrInvalidTree) {
		e = errors.New("E001").Wrap(err)
		if name != "" {
			e = e.WithLocation(name, 0, 0)
		}
		return nil, e
	}

	e = errors.New("E003").Wrap(err)
	if name != "" {
		e = e.WithLocationFromDecode(name, err)
	}
	return nil, e
}
