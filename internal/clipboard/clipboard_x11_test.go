//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func testOwner() *selectionOwner {
	return &selectionOwner{atoms: atoms{clipboard: 10, targets: 11, utf8: 12, png: 13, property: 14}}
}

func TestPayloadTargets(t *testing.T) {
	o := testOwner()

	typ, format, data, ok := o.payload(o.atoms.targets)
	if !ok || typ != xproto.AtomAtom || format != 32 {
		t.Fatalf("targets = %v %d %v", typ, format, ok)
	}
	if len(data) != 4 || xproto.Atom(xgb.Get32(data)) != o.atoms.targets {
		t.Fatalf("empty clipboard should only offer TARGETS, got %v", data)
	}
	if _, _, _, ok := o.payload(o.atoms.png); ok {
		t.Fatalf("png offered while empty")
	}

	o.data = clipData{png: []byte("PNG")}
	_, _, data, _ = o.payload(o.atoms.targets)
	if len(data) != 8 || xproto.Atom(xgb.Get32(data[4:])) != o.atoms.png {
		t.Fatalf("targets after copy = %v", data)
	}
	typ, format, data, ok = o.payload(o.atoms.png)
	if !ok || typ != o.atoms.png || format != 8 || !bytes.Equal(data, []byte("PNG")) {
		t.Fatalf("png payload = %v %d %q %v", typ, format, data, ok)
	}
	if _, _, _, ok := o.payload(o.atoms.utf8); ok {
		t.Fatalf("text offered for an image copy")
	}
}
