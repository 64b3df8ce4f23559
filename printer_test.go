package lisp

import (
	"testing"
)

func Test_Printer_Atoms(t *testing.T) {
	_, env, _ := newTestEnv(t)

	cases := []struct {
		src  string
		want string
	}{
		{"()", "()"},
		{"#t", "#T"},
		{"#f", "#F"},
		{"42", "42"},
		{"-17", "-17"},
		{"abc", "ABC"},
		{`"hi"`, `"hi"`},
	}
	for _, c := range cases {
		v := readOne(t, env, c.src)
		if got := ToString(env, v); got != c.want {
			t.Fatalf("format %q: want %q, got %q", c.src, c.want, got)
		}
	}
}

func Test_Printer_StringEscapesRoundTrip(t *testing.T) {
	_, env, _ := newTestEnv(t)

	v := NewString(env, "a\\b\"c\nd\te")
	formatted := ToString(env, v)
	back := readOne(t, env, formatted)
	if !Equal(v, back) {
		t.Fatalf("string round trip: %q -> %q -> %q",
			v.Data.(*String).Str, formatted, back.Data.(*String).Str)
	}
}

func Test_Printer_Lists(t *testing.T) {
	_, env, _ := newTestEnv(t)

	cases := []string{
		"(1 2 3)",
		"(A . B)",
		"(1 2 . 3)",
		"((A) (B C) ())",
		"(QUOTE X)",
	}
	for _, src := range cases {
		v := readOne(t, env, src)
		if got := ToString(env, v); got != src {
			t.Fatalf("list format: want %q, got %q", src, got)
		}
	}
}

func Test_Printer_Vector(t *testing.T) {
	_, env, _ := newTestEnv(t)
	v := evalSource(t, env, "(vector 1 2 3)")
	if got := ToString(env, v); got != "#(1 2 3)" {
		t.Fatalf("vector format: %q", got)
	}
}

func Test_Printer_Procedure(t *testing.T) {
	_, env, _ := newTestEnv(t)

	v := evalSource(t, env, "(lambda (x) x)")
	if got := ToString(env, v); got != "[Procedure #[LAMBDA]]" {
		t.Fatalf("lambda format: %q", got)
	}

	v = evalSource(t, env, "(named-lambda (inc x) (+ x 1))")
	if got := ToString(env, v); got != "[Procedure INC]" {
		t.Fatalf("named-lambda format: %q", got)
	}
}

func Test_Printer_ExceptionPanics(t *testing.T) {
	_, env, _ := newTestEnv(t)
	defer func() {
		if recover() == nil {
			t.Fatal("formatting Exception must panic")
		}
	}()
	ToString(env, Exception)
}

// read(format(v)) == v for the data subset.
func Test_Printer_ReadFormatRoundTrip(t *testing.T) {
	_, env, _ := newTestEnv(t)

	sources := []string{
		"()",
		"#t",
		"12345",
		"-1",
		"hello",
		`"str with \t tab"`,
		"(1 2 3)",
		"(a (b . c) (d))",
		"(quote (1 . 2))",
	}
	for _, src := range sources {
		v := readOne(t, env, src)
		back := readOne(t, env, ToString(env, v))
		if !Equal(v, back) {
			t.Fatalf("round trip failed for %q: formatted %q", src, ToString(env, v))
		}
	}
}
