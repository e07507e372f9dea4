package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"docstudio/internal/imaging"
	"docstudio/internal/models"
)

func pngURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestWriterOutput(t *testing.T) {
	w := New(A4)
	w.SetTitle("Contrato")
	w.AddPage()
	w.SetFont(Font{Family: "Arial", Style: "b", Size: 12})
	w.SetTextColor("#336699")
	w.Text(20, 30, "Obrigações da Contratante")
	w.Line(20, 32, 100, 32)
	w.Box(20, 40, 50, 10, "#e0f2fe", "#0284c7", 5, true)
	w.Box(20, 60, 50, 10, "", "", 0, false)
	if err := w.Image(pngURI(t), 20, 80, 40, 20); err != nil {
		t.Fatalf("Image: %v", err)
	}
	w.AddPage()

	if w.PageCount() != 2 {
		t.Errorf("pages = %d, want 2", w.PageCount())
	}
	if w.Width("abc") <= 0 {
		t.Error("width of text should be positive")
	}

	var buf bytes.Buffer
	n, err := w.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("missing PDF header")
	}
}

func TestCountPages(t *testing.T) {
	for _, pages := range []int{1, 3} {
		w := New(A4)
		for range pages {
			w.AddPage()
			w.SetFont(Font{Family: "Arial", Size: 11})
			w.Text(20, 30, "Página")
		}
		data, err := w.Bytes()
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		if got := CountPages(data); got != pages {
			t.Errorf("CountPages = %d, want %d", got, pages)
		}
	}
	if got := CountPages([]byte("not a pdf")); got != 0 {
		t.Errorf("CountPages(garbage) = %d, want 0", got)
	}
}

func TestImageRejectsNonImage(t *testing.T) {
	w := New(A4)
	w.AddPage()
	uri := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))
	if err := w.Image(uri, 0, 0, 10, 10); !errors.Is(err, imaging.ErrNotImage) {
		t.Errorf("err = %v, want ErrNotImage", err)
	}
	corrupt := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not png"))
	if err := w.Image(corrupt, 0, 0, 10, 10); err == nil {
		t.Error("expected error for undecodable image")
	}
	if _, err := w.Bytes(); err != nil {
		t.Errorf("writer unusable after rejected image: %v", err)
	}
}

func TestOriented(t *testing.T) {
	l := A4.Oriented(models.OrientationLandscape)
	if l.Width != 297 || l.Height != 210 {
		t.Errorf("landscape = %+v", l)
	}
	if p := A4.Oriented(models.OrientationPortrait); p != A4 {
		t.Errorf("portrait = %+v", p)
	}
}

func TestCoreFamily(t *testing.T) {
	tests := map[string]string{
		"Arial":           "Helvetica",
		"Times New Roman": "Times",
		"Georgia, serif":  "Times",
		"sans-serif":      "Helvetica",
		"Courier New":     "Courier",
		"monospace":       "Courier",
		"":                "Helvetica",
	}
	for in, want := range tests {
		if got := CoreFamily(in); got != want {
			t.Errorf("CoreFamily(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
		ok      bool
	}{
		{"#000000", 0, 0, 0, true},
		{"#ff8000", 255, 128, 0, true},
		{"#fff", 255, 255, 255, true},
		{"0284c7", 2, 132, 199, true},
		{"#gggggg", 0, 0, 0, false},
		{"red", 0, 0, 0, false},
	}
	for _, tt := range tests {
		r, g, b, ok := ParseHexColor(tt.in)
		if r != tt.r || g != tt.g || b != tt.b || ok != tt.ok {
			t.Errorf("ParseHexColor(%q) = %d,%d,%d,%v", tt.in, r, g, b, ok)
		}
	}
}
