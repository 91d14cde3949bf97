package actions

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/relloyd/housepipe/logger"
)

const testHeader = "house_id,latitude,longitude,maintenance_year,square,population,region,locality_name,address,full_address,communal_service_id,description"

var testRows = []string{
	`1,55.75,37.61,1950,"12,5",100,Moscow,Moscow,"ул. Ленина, 1","Москва, ул. Ленина, 1",5,old building`,
	`2,,,1700,"1 234",,Moscow,Zelenograd,a,b,,`,
	`,,,,,,,,,,,`,
}

func testLogger() logger.Logger {
	return logger.NewLogger("housepipe", "error", true)
}

func writeTestInput(t *testing.T, dir string) string {
	name := filepath.Join(dir, "houses.csv")
	data := testHeader + "\n" + strings.Join(testRows, "\n") + "\n"
	if err := ioutil.WriteFile(name, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func writeTestExtract(t *testing.T, dir string, rows int) string {
	name := filepath.Join(dir, "extract.tsv")
	var b strings.Builder
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%v\t55.0\t37.0\t1950\t50.0\t10\tr\tl\ta\tfa\t1.0\td\n", i)
	}
	if err := ioutil.WriteFile(name, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

type fakeProber struct {
	version string
	err     error
}

func (f fakeProber) Version(ctx context.Context) (string, error) {
	return f.version, f.err
}

// fakeStore is a goroutine safe clickhouse.Store for tests that launch runs in the background.
type fakeStore struct {
	mu      sync.Mutex
	version string
	queries []string
}

func (f *fakeStore) Version(ctx context.Context) (string, error) {
	return f.version, nil
}

func (f *fakeStore) Exec(ctx context.Context, sql string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, sql)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, sql string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, sql)
	return "house_id\n1\n", nil
}

func (f *fakeStore) Insert(ctx context.Context, insertSQL string, body io.Reader) error {
	return nil
}
