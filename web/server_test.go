package web

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/mogaika/skinpack/anim"
	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/status"
	"github.com/mogaika/skinpack/store"
)

func testServer(t *testing.T, withStore bool) *Server {
	s := &Server{Pipeline: config.DefaultPipeline()}
	if withStore {
		dir, err := ioutil.TempDir("", "skinpack-web")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.RemoveAll(dir) })
		st, err := store.Open(filepath.Join(dir, "web.res"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { st.Close() })
		s.Store = st
	}
	return s
}

func upload(t *testing.T, url string, data []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("data", "upload")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func testStream(t *testing.T) []byte {
	set := anim.NewSet()
	set.Add(&anim.Animation{Name: "Wave", Channels: []*anim.Channel{{
		Bone: "Hand",
		Keyframes: []anim.Keyframe{
			{Transform: mgl32.Ident4(), Time: 0},
			{Transform: mgl32.Ident4(), Time: anim.TICKS_PER_SECOND},
		},
	}}})
	var buf bytes.Buffer
	if err := anim.Encode(&buf, set); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHandlerShader(t *testing.T) {
	s := testServer(t, false)

	rec := serve(s, httptest.NewRequest("GET", "/shader/30", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "float4x4 MatrixPalette[30];") {
		t.Errorf("GET /shader/30 = %d %.80q", rec.Code, rec.Body.String())
	}
	rec = serve(s, httptest.NewRequest("GET", "/shader/default", nil))
	if !strings.Contains(rec.Body.String(), "MatrixPalette[56]") {
		t.Errorf("GET /shader/default did not use the pipeline palette size")
	}
	for _, bad := range []string{"/shader/0", "/shader/abc"} {
		if rec := serve(s, httptest.NewRequest("GET", bad, nil)); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d; expected 400", bad, rec.Code)
		}
	}

	rec = serve(s, httptest.NewRequest("GET", "/shader/12/inspect", nil))
	var decl struct {
		PaletteSize int `json:"palette_size"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &decl); err != nil || decl.PaletteSize != 12 {
		t.Errorf("GET /shader/12/inspect = %s", rec.Body.String())
	}
}

func TestHandlerAnimInspect(t *testing.T) {
	s := testServer(t, false)
	rec := serve(s, upload(t, "/anim/inspect", testStream(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /anim/inspect = %d %s", rec.Code, rec.Body.String())
	}
	var summary []anim.AnimationSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
	if len(summary) != 1 || summary[0].Name != "Wave" || summary[0].Seconds != 1 || summary[0].Keyframes != 2 {
		t.Errorf("summary=%+v", summary)
	}

	rec = serve(s, upload(t, "/anim/inspect", []byte{1, 0}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /anim/inspect truncated = %d; expected 400", rec.Code)
	}
}

const collapseScene = `
name: Robot_VC_
mesh:
  positions: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0], [2, 0, 0], [2, 1, 0], [3, 1, 0]]
  parts:
    - name: a
      material: Arm_0
      position_indices: [0, 1, 2, 3]
      indices: [0, 1, 2, 0, 2, 3]
    - name: b
      material: Arm_3
      position_indices: [4, 5, 6]
      indices: [0, 1, 2]
`

func TestHandlerMeshCollapse(t *testing.T) {
	s := testServer(t, false)
	rec := serve(s, upload(t, "/mesh/collapse", []byte(collapseScene)))
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("glTF")) {
		t.Errorf("POST /mesh/collapse = %d %.40q", rec.Code, rec.Body.String())
	}

	rec = serve(s, upload(t, "/mesh/collapse?format=yaml", []byte(collapseScene)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "name: Arm") {
		t.Errorf("POST /mesh/collapse?format=yaml = %d %s", rec.Code, rec.Body.String())
	}

	bad := strings.Replace(collapseScene, "Arm_3", "Arm_9", 1)
	if rec := serve(s, upload(t, "/mesh/collapse", []byte(bad))); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /mesh/collapse bad index = %d; expected 422", rec.Code)
	}
}

func TestHandlerStore(t *testing.T) {
	s := testServer(t, true)
	if rec := serve(s, upload(t, "/store/animations", testStream(t))); rec.Code != http.StatusOK {
		t.Fatalf("POST /store/animations = %d %s", rec.Code, rec.Body.String())
	}

	rec := serve(s, httptest.NewRequest("GET", "/store/animations", nil))
	if strings.TrimSpace(rec.Body.String()) != `["Wave"]` {
		t.Errorf("GET /store/animations = %s", rec.Body.String())
	}

	rec = serve(s, httptest.NewRequest("GET", "/store/animations/Wave?format=raw", nil))
	if !bytes.Equal(rec.Body.Bytes(), testStream(t)) {
		t.Errorf("raw stored animation differs from upload")
	}

	if rec := serve(s, httptest.NewRequest("GET", "/store/animations/Nope", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("GET missing animation = %d; expected 404", rec.Code)
	}
	if rec := serve(s, httptest.NewRequest("DELETE", "/store/animations/Wave", nil)); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE = %d; expected 204", rec.Code)
	}

	noStore := testServer(t, false)
	if rec := serve(noStore, httptest.NewRequest("GET", "/store/animations", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("GET without store = %d; expected 404", rec.Code)
	}
}

func TestStatusEvents(t *testing.T) {
	s := testServer(t, true)
	s.Status = status.NewHub()
	if rec := serve(s, upload(t, "/store/animations", testStream(t))); rec.Code != http.StatusOK {
		t.Fatalf("POST /store/animations = %d %s", rec.Code, rec.Body.String())
	}

	srv := httptest.NewServer(s.Router())
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/status", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	var e status.Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if e.Type != status.INFO || e.Message != "Stored 1 animations" {
		t.Errorf("event=%+v", e)
	}
}
