package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"blox/internal/assets"
	"blox/internal/interp"
	"blox/internal/parser"
	"blox/internal/runtime"
)

func (s *Server) serveRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := assets.ResolveRoute(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	program, err := s.load(route.Program)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tmpl, err := s.load(route.Template)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if program == nil && tmpl == nil {
		http.NotFound(w, r)
		return
	}

	env, value, err := s.execute(s.Context(), route.Program, program, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if tmpl == nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(value.String()))
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, route.Template, tmpl, env.Bindings()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// load returns nil for assets that do not exist.
func (s *Server) load(path string) ([]byte, error) {
	data, err := s.provider.Load(path)
	if errors.Is(err, assets.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

// execute runs a route program in a child of the context's root holding
// the request bindings. A route without a program still gets the bindings.
func (s *Server) execute(c *interp.Context, label string, source []byte, r *http.Request) (*runtime.Env, runtime.Value, error) {
	env := c.Root.Child()
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			env.Insert(name, runtime.String(values[0]))
		}
	}
	env.Insert("path", runtime.String(r.URL.Path))
	env.Insert("method", runtime.String(r.Method))

	if source == nil {
		return env, runtime.Void{}, nil
	}
	program, err := parser.Parse(string(source), label)
	if err != nil {
		return nil, nil, err
	}
	value, err := c.ExecuteProgram(program, env)
	if err != nil {
		return nil, nil, err
	}
	return env, value, nil
}

// render executes the template with every binding as its display string.
func render(w *bytes.Buffer, name string, source []byte, bindings runtime.Object) error {
	t, err := template.New(name).Option("missingkey=zero").Parse(string(source))
	if err != nil {
		return err
	}
	data := make(map[string]string, bindings.Len())
	for _, key := range bindings.Keys() {
		v, _ := bindings.Get(key)
		data[key] = v.String()
	}
	return t.Execute(w, data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithFields(logrus.Fields{
		"path": r.URL.Path,
	}).Error("request failed")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(err.Error()))
}
