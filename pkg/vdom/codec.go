package vdom

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTree is returned when decoded data does not describe a tree.
var ErrInvalidTree = errors.New("vdom: invalid tree description")

// Codec defines the deserialization contract for tree descriptions.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// CodecFor picks a codec from a file extension. YAML is the default because
// it is a superset of JSON.
func CodecFor(path string) Codec {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONCodec{}
	}
	return YAMLCodec{}
}

// Decode parses a tree description.
//
// The accepted shape is:
//
//	{tag: div, props: {class: a, key: k}, children: [...]}   element
//	{value: hello}                                           text node
//	hello | 42 | true                                        text value
func Decode(data []byte, codec Codec) (*VNode, error) {
	var raw any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", codec.ContentType(), err)
	}
	if raw == nil {
		return nil, nil
	}
	return fromRaw(raw, "$")
}

func fromRaw(raw any, path string) (*VNode, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil

	case map[string]any:
		if tag, ok := v["tag"]; ok {
			return elementFromRaw(v, tag, path)
		}
		if value, ok := v["value"]; ok {
			return Text(Stringify(value)), nil
		}
		return nil, fmt.Errorf("%w: %s: object needs a tag or a value", ErrInvalidTree, path)

	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = val
		}
		return fromRaw(m, path)

	case bool:
		return &VNode{Kind: KindTextValue, Text: Stringify(v)}, nil

	default:
		if tv := TextValue(v); tv != nil {
			return tv, nil
		}
		return nil, fmt.Errorf("%w: %s: unsupported %T", ErrInvalidTree, path, raw)
	}
}

func elementFromRaw(m map[string]any, tag any, path string) (*VNode, error) {
	tagName, ok := tag.(string)
	if !ok || tagName == "" {
		return nil, fmt.Errorf("%w: %s: tag must be a non-empty string", ErrInvalidTree, path)
	}

	node := &VNode{
		Kind:     KindElement,
		Tag:      tagName,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	switch props := m["props"].(type) {
	case nil:
	case map[string]any:
		for k, val := range props {
			node.setProp(k, val)
		}
	default:
		return nil, fmt.Errorf("%w: %s.props: expected object, got %T", ErrInvalidTree, path, props)
	}

	switch children := m["children"].(type) {
	case nil:
	case []any:
		for i, c := range children {
			child, err := fromRaw(c, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			if child != nil {
				node.Children = append(node.Children, child)
			}
		}
	default:
		// A single child may be written without the list.
		child, err := fromRaw(children, path+".children")
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

// Encode writes a tree description as indented JSON in the shape Decode
// accepts. Event handlers are omitted.
func Encode(node *VNode) ([]byte, error) {
	return json.MarshalIndent(toRaw(node), "", "  ")
}

func toRaw(node *VNode) any {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case KindText:
		return map[string]any{"value": node.Text}
	case KindTextValue:
		return node.Text
	case KindElement:
		out := map[string]any{"tag": node.Tag}
		props := make(map[string]any, len(node.Props))
		for k, v := range node.Props {
			if IsEventProp(k) {
				continue
			}
			props[k] = v
		}
		if node.Key != "" {
			props["key"] = node.Key
		}
		if len(props) > 0 {
			out["props"] = props
		}
		if len(node.Children) > 0 {
			children := make([]any, 0, len(node.Children))
			for _, c := range node.Children {
				children = append(children, toRaw(c))
			}
			out["children"] = children
		}
		return out
	}
	return nil
}
