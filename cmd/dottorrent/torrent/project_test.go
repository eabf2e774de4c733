package torrent_test

import (
	"errors"
	"testing"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/bencode"
	"github.com/dottorrent/dottorrent/cmd/dottorrent/torrent"
)

func validInfo() map[string]bencode.Value {
	return map[string]bencode.Value{
		"length":       bencode.Int(100),
		"name":         bencode.String("test"),
		"piece length": bencode.Int(16384),
		"pieces":       bencode.Bytes(fakePieces(1)),
	}
}

func withInfo(mutate func(info map[string]bencode.Value)) bencode.Value {
	info := validInfo()
	mutate(info)
	return bencode.Dict(map[string]bencode.Value{"info": bencode.Dict(info)})
}

func withRoot(key string, v bencode.Value) bencode.Value {
	return bencode.Dict(map[string]bencode.Value{
		"info": bencode.Dict(validInfo()),
		key:    v,
	})
}

func multiFile(files ...bencode.Value) func(map[string]bencode.Value) {
	return func(info map[string]bencode.Value) {
		delete(info, "length")
		info["files"] = bencode.List(files...)
	}
}

func TestProjectErrors(t *testing.T) {
	tests := []struct {
		name  string
		input bencode.Value
		want  error
		field string
	}{
		{"root not a dictionary", bencode.Int(1), torrent.ErrTypeMismatch, ""},
		{"missing info", bencode.Dict(map[string]bencode.Value{"announce": bencode.String("u")}), torrent.ErrMissingField, "info"},
		{"info not a dictionary", withRoot("info", bencode.String("x")), torrent.ErrTypeMismatch, "info"},
		{"announce is an integer", withRoot("announce", bencode.Int(1)), torrent.ErrTypeMismatch, "announce"},
		{"creation date is a string", withRoot("creation date", bencode.String("today")), torrent.ErrTypeMismatch, "creation date"},
		{"tier is a string", withRoot("announce-list", strs("http://a/")), torrent.ErrTypeMismatch, "announce-list[0]"},
		{"tracker is an integer", withRoot("announce-list", bencode.List(bencode.List(bencode.Int(1)))), torrent.ErrTypeMismatch, "announce-list[0][0]"},
		{"node is a string", withRoot("nodes", strs("host:1")), torrent.ErrTypeMismatch, "nodes[0]"},
		{"node port is a string", withRoot("nodes", bencode.List(strs("host", "1"))), torrent.ErrTypeMismatch, "nodes[0][1]"},
		{"httpseed is an integer", withRoot("httpseeds", bencode.List(bencode.Int(1))), torrent.ErrTypeMismatch, "httpseeds[0]"},
		{"missing name", withInfo(func(i map[string]bencode.Value) { delete(i, "name") }), torrent.ErrMissingField, "info.name"},
		{"missing piece length", withInfo(func(i map[string]bencode.Value) { delete(i, "piece length") }), torrent.ErrMissingField, "info.piece length"},
		{"missing pieces", withInfo(func(i map[string]bencode.Value) { delete(i, "pieces") }), torrent.ErrMissingField, "info.pieces"},
		{"zero piece length", withInfo(func(i map[string]bencode.Value) { i["piece length"] = bencode.Int(0) }), torrent.ErrInvalidValue, "info.piece length"},
		{"short pieces", withInfo(func(i map[string]bencode.Value) { i["pieces"] = bencode.Bytes(make([]byte, 19)) }), torrent.ErrInvalidPieceBuffer, "info.pieces"},
		{"pieces not multiple of 20", withInfo(func(i map[string]bencode.Value) { i["pieces"] = bencode.Bytes(make([]byte, 41)) }), torrent.ErrInvalidPieceBuffer, "info.pieces"},
		{"pieces is a list", withInfo(func(i map[string]bencode.Value) { i["pieces"] = bencode.List() }), torrent.ErrTypeMismatch, "info.pieces"},
		{"length and files", withInfo(func(i map[string]bencode.Value) {
			i["files"] = bencode.List(bencode.Dict(map[string]bencode.Value{"length": bencode.Int(1), "path": strs("a")}))
		}), torrent.ErrAmbiguousFileLayout, "info"},
		{"neither length nor files", withInfo(func(i map[string]bencode.Value) { delete(i, "length") }), torrent.ErrMissingField, "info.length"},
		{"negative length", withInfo(func(i map[string]bencode.Value) { i["length"] = bencode.Int(-1) }), torrent.ErrInvalidValue, "info.length"},
		{"empty files", withInfo(multiFile()), torrent.ErrInvalidValue, "info.files"},
		{"file not a dictionary", withInfo(multiFile(bencode.Int(1))), torrent.ErrTypeMismatch, "info.files[0]"},
		{"file missing path", withInfo(multiFile(bencode.Dict(map[string]bencode.Value{"length": bencode.Int(1)}))), torrent.ErrMissingField, "info.files[0].path"},
		{"file missing length", withInfo(multiFile(bencode.Dict(map[string]bencode.Value{"path": strs("a")}))), torrent.ErrMissingField, "info.files[0].length"},
		{"file empty path", withInfo(multiFile(bencode.Dict(map[string]bencode.Value{"length": bencode.Int(1), "path": bencode.List()}))), torrent.ErrInvalidValue, "info.files[0].path"},
		{"file path segment is an integer", withInfo(multiFile(bencode.Dict(map[string]bencode.Value{
			"length": bencode.Int(1),
			"path":   bencode.List(bencode.Int(7)),
		}))), torrent.ErrTypeMismatch, "info.files[0].path[0]"},
		{"file negative length", withInfo(multiFile(bencode.Dict(map[string]bencode.Value{"length": bencode.Int(-5), "path": strs("a")}))), torrent.ErrInvalidValue, "info.files[0].length"},
		{"private is two", withInfo(func(i map[string]bencode.Value) { i["private"] = bencode.Int(2) }), torrent.ErrInvalidValue, "info.private"},
		{"md5sum is an integer", withInfo(func(i map[string]bencode.Value) { i["md5sum"] = bencode.Int(5) }), torrent.ErrTypeMismatch, "info.md5sum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := torrent.Project(tt.input)
			if parsed != nil {
				t.Errorf("Project returned a partial torrent: %+v", parsed)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Project error = %v, want %v", err, tt.want)
			}

			var fieldErr *torrent.FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("error %T is not a *FieldError", err)
			}
			if fieldErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", fieldErr.Field, tt.field)
			}
		})
	}
}

func TestTypeMismatchNamesExpectedKind(t *testing.T) {
	_, err := torrent.Project(withRoot("announce", bencode.Int(1)))

	var fieldErr *torrent.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("error = %v, want *FieldError", err)
	}
	if fieldErr.Expected != bencode.KindString {
		t.Errorf("Expected = %v, want %v", fieldErr.Expected, bencode.KindString)
	}
	if got, want := err.Error(), "torrent: announce: type mismatch, expected string"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseReportsDecodeErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"d4:infoi007ee", bencode.ErrMalformedInteger},
		{"d4:info03:abce", bencode.ErrMalformedLength},
		{"d4:infodee extra", bencode.ErrTrailingData},
		{"d4:info", bencode.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		parsed, err := torrent.Parse([]byte(tt.input))
		if parsed != nil || !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) = %v, %v; want nil, %v", tt.input, parsed, err, tt.want)
		}
	}
}
