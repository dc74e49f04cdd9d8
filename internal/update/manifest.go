package update

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/model"
)

// object is a JSON object that remembers key order, so rewriting a
// package.json only touches the value that changed.
type object struct {
	keys   []string
	values map[string]json.RawMessage
}

func (o *object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object")
	}
	o.keys = nil
	o.values = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, dup := o.values[key]; !dup {
			o.keys = append(o.keys, key)
		}
		o.values[key] = raw
	}
	_, err = dec.Token()
	return err
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(o.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *object) set(key string, raw json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// manifest is a package.json.
type manifest struct {
	object
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.ErrFileRead, "read %s", path)
	}
	m := &manifest{}
	if err := json.Unmarshal(data, &m.object); err != nil {
		return nil, apperr.Wrapf(err, apperr.ErrUpdate, "parse %s", path)
	}
	return m, nil
}

func (m *manifest) stringField(key string) string {
	var s string
	if raw, ok := m.values[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func (m *manifest) dependencies() (object, error) {
	var deps object
	raw, ok := m.values["dependencies"]
	if !ok || string(raw) == "null" {
		return deps, nil
	}
	if err := json.Unmarshal(raw, &deps); err != nil {
		return deps, apperr.Wrap(err, apperr.ErrUpdate, "parse dependencies")
	}
	return deps, nil
}

func (m *manifest) dependency(pkg string) string {
	deps, err := m.dependencies()
	if err != nil {
		return ""
	}
	var v string
	if raw, ok := deps.values[pkg]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

func (m *manifest) setDependency(pkg, ver string) error {
	deps, err := m.dependencies()
	if err != nil {
		return err
	}
	vb, err := marshal(ver)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "encode version")
	}
	deps.set(pkg, vb)
	db, err := marshal(deps)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "encode dependencies")
	}
	m.set("dependencies", db)
	return nil
}

// write stores the manifest with two-space indentation.
func (m *manifest) write(path string) error {
	compact, err := marshal(m.object)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "encode manifest")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "indent manifest")
	}
	if err := model.WriteFileAtomic(path, out.Bytes(), 0644); err != nil {
		return apperr.Wrapf(err, apperr.ErrFileWrite, "write %s", path)
	}
	return nil
}

// marshal encodes v without HTML escaping so values such as "a && b" or
// "<2.0.0" are written back as they were read.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
