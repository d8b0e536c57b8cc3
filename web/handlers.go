package web

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/skinpack/anim"
	"github.com/mogaika/skinpack/batch"
	"github.com/mogaika/skinpack/scene"
	"github.com/mogaika/skinpack/shader"
	"github.com/mogaika/skinpack/store"
	"github.com/mogaika/skinpack/webutils"
)

func (s *Server) paletteSize(r *http.Request) (int, error) {
	param := mux.Vars(r)["palette"]
	if param == "default" {
		return s.Pipeline.PaletteSize, nil
	}
	size, err := strconv.Atoi(param)
	if err != nil {
		return 0, errors.Errorf("palette '%s' is not integer", param)
	}
	return size, nil
}

func (s *Server) HandlerShader(w http.ResponseWriter, r *http.Request) {
	size, err := s.paletteSize(r)
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	source, err := shader.Generate(size)
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	if r.URL.Query().Get("download") != "" {
		webutils.WriteFile(w, strings.NewReader(source), "palette"+strconv.Itoa(size)+".fx")
	} else {
		webutils.WriteText(w, source)
	}
}

func (s *Server) HandlerShaderInspect(w http.ResponseWriter, r *http.Request) {
	size, err := s.paletteSize(r)
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	source, err := shader.Generate(size)
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	decl, err := shader.Inspect([]byte(source))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, decl)
}

func (s *Server) decodeUpload(r *http.Request) (*anim.Set, error) {
	data, err := webutils.ReadFormFile(r, "data")
	if err != nil {
		return nil, err
	}
	d, err := anim.NewDecoder(s.Pipeline, s.Log)
	if err != nil {
		return nil, err
	}
	return d.DecodeValidated(bytes.NewReader(data))
}

func (s *Server) HandlerAnimInspect(w http.ResponseWriter, r *http.Request) {
	set, err := s.decodeUpload(r)
	if err != nil {
		s.Status.Error("Animation stream rejected: %v", err)
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	webutils.WriteJson(w, set.Summary())
}

func (s *Server) HandlerMeshCollapse(w http.ResponseWriter, r *http.Request) {
	data, err := webutils.ReadFormFile(r, "data")
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	root, err := scene.LoadYAML(bytes.NewReader(data))
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}

	marker := s.Pipeline.CollapseMarker
	if m := r.URL.Query().Get("marker"); m != "" {
		marker = m
	}
	collapsed, err := batch.PreProcess(root, marker, s.Log)
	if err != nil {
		s.Status.Error("Collapse of %q failed: %v", root.Name, err)
		webutils.WriteErrorStatus(w, http.StatusUnprocessableEntity, err)
		return
	}
	if collapsed {
		s.Status.Info("Collapsed %q", root.Name)
	}
	if s.Pipeline.EnsureVertexColors {
		batch.EnsureVertexColors(root)
	}
	if s.Pipeline.TagParts {
		batch.TagParts(root, s.Pipeline.DropMaterials)
	}

	if r.URL.Query().Get("format") == "yaml" {
		var buf bytes.Buffer
		if err := scene.EncodeYAML(&buf, root); err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteFile(w, &buf, root.Name+".yaml")
		return
	}

	var buf bytes.Buffer
	if err := scene.WriteGLB(&buf, root, s.Log); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, root.Name+".glb")
}

func (s *Server) getStore(w http.ResponseWriter) *store.Store {
	if s.Store == nil {
		webutils.WriteErrorStatus(w, http.StatusNotFound, errors.Errorf("Animation store is not configured"))
	}
	return s.Store
}

func (s *Server) HandlerStoreList(w http.ResponseWriter, r *http.Request) {
	st := s.getStore(w)
	if st == nil {
		return
	}
	names, err := st.Names()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, names)
}

func (s *Server) HandlerStoreUpload(w http.ResponseWriter, r *http.Request) {
	st := s.getStore(w)
	if st == nil {
		return
	}
	set, err := s.decodeUpload(r)
	if err != nil {
		webutils.WriteErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	if err := st.PutSet(set); err != nil {
		s.Status.Error("Store failed: %v", err)
		webutils.WriteError(w, err)
		return
	}
	s.Status.Info("Stored %d animations", set.Len())
	webutils.WriteJson(w, set.Names())
}

func (s *Server) HandlerStoreAnimation(w http.ResponseWriter, r *http.Request) {
	st := s.getStore(w)
	if st == nil {
		return
	}
	name := mux.Vars(r)["name"]
	a, err := st.Animation(name)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "raw":
		e, err := anim.NewEncoder(s.Pipeline)
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := e.EncodeAnimation(&buf, a); err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteFile(w, &buf, name+".anim")
	case "yaml":
		webutils.WriteYamlFile(w, a.Summary(), name)
	default:
		webutils.WriteJson(w, a.Summary())
	}
}

func (s *Server) HandlerStoreDelete(w http.ResponseWriter, r *http.Request) {
	st := s.getStore(w)
	if st == nil {
		return
	}
	if err := st.Delete(mux.Vars(r)["name"]); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Cause(err) == store.ErrNotFound {
		webutils.WriteErrorStatus(w, http.StatusNotFound, err)
	} else {
		webutils.WriteError(w, err)
	}
}
