// Command playacat opens a PDF and dumps its low-level structure: page
// count and labels, a page's content objects as JSON, or its bookmark
// outline.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dhdaines-go/playa"
	"github.com/dhdaines-go/playa/outline"
)

func main() {
	mode := flag.String("mode", "info", "what to print: info, objects, outline")
	page := flag.Int("page", 0, "1-indexed page number (required for objects mode)")
	password := flag.String("password", "", "decryption password, if the document is encrypted")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: playacat [options] file.pdf")
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)
	d, err := playa.OpenFile(path, *password)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer d.Close()

	switch strings.ToLower(*mode) {
	case "info":
		runInfo(d)
	case "objects":
		runObjects(d, *page)
	case "outline":
		runOutline(d)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	for _, w := range d.Warnings() {
		fmt.Fprintln(os.Stderr, w)
	}
}

func runInfo(d *playa.Document) {
	n := d.NPages()
	fmt.Printf("pages: %d\n", n)
	for i := 1; i <= n; i++ {
		fmt.Printf("  %d: %s\n", i, d.PageLabel(i))
	}
}

func runObjects(d *playa.Document, pageNum int) {
	if pageNum <= 0 {
		log.Fatal("the -page flag must be specified for objects mode")
	}
	p, err := d.Page(pageNum)
	if err != nil {
		log.Fatalf("Page(%d): %v", pageNum, err)
	}
	objs, err := p.Objects()
	if err != nil {
		log.Fatalf("Page(%d).Objects: %v", pageNum, err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, o := range objs {
		if err := enc.Encode(jsonObject(o)); err != nil {
			log.Fatalf("encode: %v", err)
		}
	}
}

// jsonObject renders an Object's useful fields; Object itself isn't
// JSON-tagged since its Matrix/Value fields don't have a natural wire
// representation, and most content-object consumers want only this much.
func jsonObject(o playa.Object) map[string]any {
	m := map[string]any{"kind": o.Kind.String()}
	switch o.Kind {
	case playa.TextObject:
		m["text"] = o.Glyph.Text
		m["width"] = o.Glyph.Width
	case playa.PathObject:
		m["op"] = o.PathOp
	case playa.ImageObject, playa.FormObject:
		m["xobject"] = o.XObjectName
	case playa.MarkedPointObject:
		m["tag"] = o.Point.Tag
		if o.Point.MCID != nil {
			m["mcid"] = *o.Point.MCID
		}
	}
	return m
}

func runOutline(d *playa.Document) {
	printOutline(outline.Walk(d), 0)
}

func printOutline(entries []outline.Entry, depth int) {
	for _, e := range entries {
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), e.Title)
		printOutline(e.Children, depth+1)
	}
}
