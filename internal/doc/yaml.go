package doc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML document into a Value, preserving mapping
// order. An empty document parses as null.
func ParseYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &ParseError{Msg: strings.TrimPrefix(err.Error(), "yaml: ")}
	}
	if node.Kind == 0 {
		return Null{}, nil
	}
	return FromYAMLNode(&node)
}

// FromYAMLNode converts a decoded yaml.Node tree into a Value.
// Mapping order follows the node's Content pairs. Non-scalar mapping
// keys are rejected; unrecognized scalar tags fall back to strings.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		arr := make(Array, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := Object{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, &ParseError{
					Msg:  "non-scalar mapping key",
					Line: keyNode.Line,
					Col:  keyNode.Column,
				}
			}
			val, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj = obj.With(keyNode.Value, val)
		}
		return obj, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return nil, &ParseError{Msg: fmt.Sprintf("unsupported YAML node kind %d", n.Kind), Line: n.Line, Col: n.Column}
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.Tag {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, &ParseError{Msg: err.Error(), Line: n.Line, Col: n.Column}
		}
		return Bool(b), nil
	case "!!int", "!!float":
		return yamlNumber(n)
	default:
		return String(n.Value), nil
	}
}

// yamlNumber keeps the source literal when it is already a valid JSON
// number; YAML-only forms (0x1a, 1_000, .inf) are re-rendered.
func yamlNumber(n *yaml.Node) (Value, error) {
	if isJSONNumber(n.Value) {
		return Number(n.Value), nil
	}
	if n.Tag == "!!int" {
		var i int64
		if err := n.Decode(&i); err == nil {
			return Number(strconv.FormatInt(i, 10)), nil
		}
	}
	var f float64
	if err := n.Decode(&f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, &ParseError{Msg: fmt.Sprintf("unrepresentable number %q", n.Value), Line: n.Line, Col: n.Column}
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// isJSONNumber checks tok against the RFC 8259 number grammar.
func isJSONNumber(tok string) bool {
	i := 0
	if i < len(tok) && tok[i] == '-' {
		i++
	}
	start := i
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	digits := i - start
	if digits == 0 || (digits > 1 && tok[start] == '0') {
		return false
	}
	if i < len(tok) && tok[i] == '.' {
		i++
		frac := i
		for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
		if i == frac {
			return false
		}
	}
	if i < len(tok) && (tok[i] == 'e' || tok[i] == 'E') {
		i++
		if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
			i++
		}
		exp := i
		for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
		if i == exp {
			return false
		}
	}
	return i == len(tok)
}

// EncodeYAML serializes v as YAML, preserving member order.
func EncodeYAML(v Value) ([]byte, error) {
	node := toYAMLNode(v)
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return out, nil
}

func toYAMLNode(v Value) *yaml.Node {
	switch t := v.(type) {
	case nil, Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(t))}
	case Number:
		tag := "!!int"
		if strings.ContainsAny(string(t), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(t)}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(t)}
	case Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, el := range t {
			node.Content = append(node.Content, toYAMLNode(el))
		}
		return node
	case Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range t.Members() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				toYAMLNode(m.Value))
		}
		return node
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
