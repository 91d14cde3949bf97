package clickhouse

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// fakeRequest is a request received by fakeServer.
type fakeRequest struct {
	Method string
	Query  string
	Body   string
	User   string
}

// fakeServer records requests and answers them with a fixed status.
type fakeServer struct {
	mu       sync.Mutex
	requests []fakeRequest
	status   func(r fakeRequest) int
	reply    func(r fakeRequest) string
	srv      *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	f := &fakeServer{
		status: func(fakeRequest) int { return http.StatusOK },
		reply:  func(fakeRequest) string { return "" },
	}
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		b, _ := ioutil.ReadAll(req.Body)
		fr := fakeRequest{Method: req.Method, Query: req.URL.Query().Get("query"), Body: string(b), User: req.Header.Get("X-ClickHouse-User")}
		f.mu.Lock()
		f.requests = append(f.requests, fr)
		f.mu.Unlock()
		w.WriteHeader(f.status(fr))
		_, _ = w.Write([]byte(f.reply(fr)))
	}).Methods(http.MethodGet, http.MethodPost)
	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) URL() string {
	return f.srv.URL + "/"
}

// inserts returns the INSERT requests received.
func (f *fakeServer) inserts() []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	retval := make([]fakeRequest, 0)
	for _, r := range f.requests {
		if strings.HasPrefix(r.Query, "INSERT") {
			retval = append(retval, r)
		}
	}
	return retval
}
