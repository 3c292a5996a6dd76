package protocol

import (
	"strconv"
	"testing"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

func benchList(n int, offset int) *vdom.VNode {
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		k := (i + offset) % n
		items = append(items, vdom.Li(vdom.Key(k), vdom.Class("row"), vdom.OnClick(vdom.HandlerRef(k+1)), vdom.Text("Item "+strconv.Itoa(k))))
	}
	return vdom.Ul(items...)
}

func BenchmarkEncodeVNode(b *testing.B) {
	tree := benchList(1000, 0)
	e := NewEncoderWithCap(64 * 1024)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Reset()
		EncodeVNodeTo(e, tree)
	}
}

func BenchmarkDecodeVNode(b *testing.B) {
	data := EncodeVNode(benchList(1000, 0))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeVNode(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodePatches(b *testing.B) {
	patches := vdom.Diff(benchList(1000, 0), benchList(1000, 10))
	pf := &PatchesFrame{Seq: 1, Patches: patches}
	e := NewEncoderWithCap(64 * 1024)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Reset()
		EncodePatchesTo(e, pf)
	}
}
