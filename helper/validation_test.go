package helper

import (
	"testing"
)

type testInnerCfg struct {
	Url string `errorTxt:"ClickHouse URL" mandatory:"yes"`
}

type testCfg struct {
	InputFile string `errorTxt:"input file" mandatory:"yes"`
	BatchSize int    `errorTxt:"batch size" mandatory:"yes"`
	Optional  string
	Inner     testInnerCfg
	hidden    string
}

func TestValidateStructIsPopulated(t *testing.T) {
	// Test 1
	cfg := testCfg{InputFile: "in.csv", BatchSize: 10, Inner: testInnerCfg{Url: "http://localhost:8123/"}}
	if err := ValidateStructIsPopulated(&cfg); err != nil {
		t.Fatal("expected no error; got ", err)
	}
	// Test 2
	cfg = testCfg{hidden: "x"}
	err := ValidateStructIsPopulated(cfg)
	if err == nil {
		t.Fatal("expected an error for missing fields")
	}
	expected := "please supply values for input file, batch size, ClickHouse URL"
	if err.Error() != expected {
		t.Fatalf("expected %q; got %q", expected, err.Error())
	}
}
