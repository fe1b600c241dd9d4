package rpc

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"
)

func TestCall_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewCall("key", "info", nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `["key/info"]` {
		t.Errorf("call = %s, want [\"key/info\"]", data)
	}

	data, err = json.Marshal(NewCall("filemanager", "rename", Params{"uid": "abc", "name": "x.bin"}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `["filemanager/rename",{"name":"x.bin","uid":"abc"}]` {
		t.Errorf("call = %s", data)
	}
}

func TestCall_UnmarshalJSON_Invalid(t *testing.T) {
	for _, input := range []string{`[]`, `{"route":"a/b"}`, `["a/b",{},{}]`, `[1]`} {
		var c Call
		if err := json.Unmarshal([]byte(input), &c); err == nil {
			t.Errorf("Unmarshal(%s): expected error", input)
		}
	}
}

func TestPayload_RoundTrip(t *testing.T) {
	p := Payload{
		APIKey: "secret",
		Calls: []Call{
			NewCall("key", "info", nil),
			NewCall("download", "check_link", Params{"link": "http://example.com/f"}),
			NewCall("filemanager", "listing", Params{"limit": float64(50), "page": float64(1), "folder": float64(0)}),
		},
	}

	form, err := EncodeForm(p)
	if err != nil {
		t.Fatalf("EncodeForm: %v", err)
	}

	// Through the url encoding the server actually sees
	decoded, err := url.ParseQuery(form.Encode())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}

	got, err := ParseForm(decoded)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if got.APIKey != "secret" {
		t.Errorf("APIKey = %s, want secret", got.APIKey)
	}
	if len(got.Calls) != len(p.Calls) {
		t.Fatalf("calls = %d, want %d", len(got.Calls), len(p.Calls))
	}
	for i := range p.Calls {
		if got.Calls[i].Route != p.Calls[i].Route {
			t.Errorf("call[%d].Route = %s, want %s", i, got.Calls[i].Route, p.Calls[i].Route)
		}
		if len(got.Calls[i].Params) != len(p.Calls[i].Params) {
			t.Errorf("call[%d].Params = %v, want %v", i, got.Calls[i].Params, p.Calls[i].Params)
		}
		for k, v := range p.Calls[i].Params {
			if got.Calls[i].Params[k] != v {
				t.Errorf("call[%d].Params[%s] = %v, want %v", i, k, got.Calls[i].Params[k], v)
			}
		}
	}
}

func TestPayload_MarshalJSON_KeyFirst(t *testing.T) {
	data, err := Payload{APIKey: "k", Calls: []Call{NewCall("ftp", "listing", nil)}}.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(data) != `["k",["ftp/listing"]]` {
		t.Errorf("payload = %s", data)
	}
}

func TestParseForm_Missing(t *testing.T) {
	_, err := ParseForm(url.Values{})
	if !errors.Is(err, ErrMissingPayload) {
		t.Errorf("err = %v, want ErrMissingPayload", err)
	}
}

func TestParseEnvelope(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"status":"OK","data":[{"max":100,"cur":3},true]}`))
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	if !env.IsOK() {
		t.Error("IsOK = false, want true")
	}
	if env.Len() != 2 {
		t.Fatalf("Len = %d, want 2", env.Len())
	}

	raw, ok := env.Result(0)
	if !ok {
		t.Fatal("Result(0) missing")
	}
	var info struct {
		Max int `json:"max"`
		Cur int `json:"cur"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if info.Max != 100 || info.Cur != 3 {
		t.Errorf("info = %+v", info)
	}
	if _, ok := env.Result(5); ok {
		t.Error("Result(5): expected no result")
	}

	env, err = ParseEnvelope([]byte(`{"status":"ERR_KEY","data":[]}`))
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	if env.IsOK() {
		t.Error("IsOK = true for ERR_KEY")
	}

	if _, err := ParseEnvelope([]byte("<html>")); err == nil {
		t.Error("expected error for malformed body")
	}
	if _, err := ParseEnvelope([]byte("  ")); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want bool
	}{
		{"empty list", []interface{}{}, true},
		{"nested empty lists", []interface{}{[]interface{}{}, []interface{}{[]interface{}{}}}, true},
		{"flat value", []interface{}{1}, false},
		{"nested value", []interface{}{[]interface{}{1}}, false},
		{"scalar", 0, false},
		{"object", map[string]interface{}{}, false},
	}

	for _, tt := range tests {
		if got := Empty(tt.v); got != tt.want {
			t.Errorf("%s: Empty = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEmptyJSON(t *testing.T) {
	tests := map[string]bool{
		`[]`:               true,
		`[[], [[]]]`:       true,
		`null`:             true,
		``:                 true,
		`[1]`:              false,
		`[[1]]`:            false,
		`[[{"link":"x"}]]`: false,
		`"text"`:           false,
	}
	for input, want := range tests {
		if got := EmptyJSON(json.RawMessage(input)); got != want {
			t.Errorf("EmptyJSON(%q) = %v, want %v", input, got, want)
		}
	}

	env, _ := ParseEnvelope([]byte(`{"status":"OK","data":[[]]}`))
	if !env.IsEmpty() {
		t.Error("IsEmpty = false for data [[]]")
	}
}

func TestIsNull(t *testing.T) {
	for input, want := range map[string]bool{``: true, `null`: true, ` null `: true, `[]`: false, `0`: false} {
		if got := IsNull(json.RawMessage(input)); got != want {
			t.Errorf("IsNull(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := map[string]bool{
		`true`:  true,
		`false`: false,
		`1`:     true,
		`0`:     false,
		`""`:    false,
		`"ok"`:  true,
		`[]`:    false,
		`[0]`:   true,
		`{}`:    false,
		`null`:  false,
	}
	for input, want := range tests {
		if got := Truthy(json.RawMessage(input)); got != want {
			t.Errorf("Truthy(%s) = %v, want %v", input, got, want)
		}
	}
}
