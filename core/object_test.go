package core

import (
	"reflect"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{Null{}, "null"},
		{Bool(true), "true"},
		{Int(-120), "-120"},
		{Real(0.5), "0.5"},
		{Real(3), "3"},
		{String("Hi (there)\\"), `(Hi \(there\)\\)`},
		{String("\x00\x41"), "<0041>"},
		{Name("F1"), "/F1"},
		{Name("A B#"), "/A#20B#23"},
		{Array{Int(1), Real(2.5), String("x"), Array{}}, "[1 2.5 (x) []]"},
		{Array{nil}, "[null]"},
		{Dict{"B": Int(2), "A": Name("x")}, "<</A /x /B 2>>"},
		{&Stream{Dict: Dict{"Subtype": Name("Image")}, Data: []byte{1, 2, 3}}, "stream <</Subtype /Image>> (3 bytes)"},
	}

	for _, tt := range tests {
		if got := tt.obj.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.obj, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		obj  Object
		want float64
		ok   bool
	}{
		{Int(-120), -120, true},
		{Real(0.5), 0.5, true},
		{String("AB"), 0, false},
		{Name("F1"), 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := Number(tt.obj)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Number(%v) = (%v, %v), want (%v, %v)", tt.obj, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBytes(t *testing.T) {
	if b, ok := Bytes(String("\x00\x41")); !ok || string(b) != "\x00A" {
		t.Errorf("Bytes(String) = (%q, %v)", b, ok)
	}
	if _, ok := Bytes(Int(1)); ok {
		t.Error("Bytes(Int) succeeded")
	}
}

func TestArray(t *testing.T) {
	arr := Array{Int(1), Real(2.5), Int(-3)}

	if arr.Get(1) != Real(2.5) || arr.Get(3) != nil || arr.Get(-1) != nil {
		t.Errorf("Get returned unexpected elements")
	}
	if got, ok := arr.Floats(); !ok || !reflect.DeepEqual(got, []float64{1, 2.5, -3}) {
		t.Errorf("Floats() = (%v, %v)", got, ok)
	}
	if _, ok := (Array{Int(1), Name("x")}).Floats(); ok {
		t.Error("Floats() succeeded on a mixed array")
	}
}

func TestDict(t *testing.T) {
	d := Dict{
		"Subtype": Name("Form"),
		"BBox":    Array{Int(0), Int(0), Int(100), Int(50)},
		"Width":   Real(12.5),
	}

	if n, ok := d.GetName("Subtype"); !ok || n != "Form" {
		t.Errorf("GetName(Subtype) = (%v, %v)", n, ok)
	}
	if _, ok := d.GetName("Width"); ok {
		t.Error("GetName(Width) succeeded")
	}
	if w, ok := d.GetNumber("Width"); !ok || w != 12.5 {
		t.Errorf("GetNumber(Width) = (%v, %v)", w, ok)
	}
	if _, ok := d.GetNumber("Missing"); ok {
		t.Error("GetNumber(Missing) succeeded")
	}
	if a, ok := d.GetArray("BBox"); !ok || len(a) != 4 {
		t.Errorf("GetArray(BBox) = (%v, %v)", a, ok)
	}
	if d.Get("Missing") != nil {
		t.Error("Get(Missing) is not nil")
	}
	if got := d.Keys(); !reflect.DeepEqual(got, []string{"BBox", "Subtype", "Width"}) {
		t.Errorf("Keys() = %v", got)
	}
}
