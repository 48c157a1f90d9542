package phrasebook

import (
	"context"
	"fmt"
)

func ExampleStore_Lookup() {
	s := New(nil)
	_, err := s.LoadString(`en:
  greetings:
    hello: Hello, %{name}
    bye: :farewell
`)
	if err != nil {
		panic(err)
	}
	v, ok, _ := s.Lookup("en", "hello", "greetings", "")
	fmt.Println(v, ok)
	v, ok, _ = s.Lookup("en", "greetings.bye", nil, "")
	fmt.Printf("%s %v\n", v.Kind(), ok)
	_, ok, _ = s.Lookup("es", "greetings.hello", nil, "")
	fmt.Println(ok)
	// Output:
	// Hello, %{name} true
	// symbol true
	// false
}

func ExampleStore_Load() {
	s := New(nil)
	s.LoadString("en:\n  foo: bar\n  list: [a, b]")
	n, _ := s.LoadString("en:\n  foo: replaced\nes:\n  foo: hola")
	fmt.Println(n)
	locales, _ := s.AvailableLocales()
	fmt.Println(locales)
	foo, _ := s.DirectLookup("en", "foo")
	list, _ := s.DirectLookup("en", "list")
	fmt.Println(foo, list.Kind())
	// Output:
	// 2
	// [en es]
	// replaced sequence
}

func ExampleStore_Save() {
	ctx := context.Background()
	p := NewInMemoryStore()
	s := New(nil)
	s.LoadString("en:\n  foo: bar")
	name, err := s.Save(ctx, p)
	if err != nil {
		panic(err)
	}
	restored := New(nil)
	if err := restored.Restore(ctx, p, name); err != nil {
		panic(err)
	}
	v, _ := restored.DirectLookup("en", "foo")
	fmt.Println(v)
	// Output:
	// bar
}

func ExampleKeyCache_Normalize() {
	c := NewKeyCache()
	fmt.Println(c.Normalize("a..b.c.", "."))
	fmt.Println(c.Normalize([]interface{}{"a", "b.c"}, "."))
	fmt.Println(c.Normalize("a.b", ":"))
	// Output:
	// [a b c]
	// [a b c]
	// [a.b]
}
