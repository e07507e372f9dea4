package slug

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Contrato São João", "Contrato Sao Joao"},
		{"Prestação de Serviços", "Prestacao de Servicos"},
		{"Über die Brücke", "Uber die Brucke"},
		{"plain ascii", "plain ascii"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestFilename covers client names, punctuation, path tricks and names
// that reduce to nothing.
func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already safe", "Contrato_Acme_Corp.pdf", "Contrato_Acme_Corp.pdf"},
		{"accents folded", "Contrato_José_da_Conceição.pdf", "Contrato_Jose_da_Conceicao.pdf"},
		{"spaces", "Contrato Acme Corp.pdf", "Contrato_Acme_Corp.pdf"},
		{"runs of whitespace", "  Acme \t  Corp  ", "Acme_Corp"},
		{"punctuation dropped", "Acme & Filhos Ltda.", "Acme_Filhos_Ltda"},
		{"slashes dropped", "a/b\\c.pdf", "abc.pdf"},
		{"parent reference", "../../etc/passwd", "etcpasswd"},
		{"hidden file", ".env", "env"},
		{"hyphen kept", "Pré-contrato", "Pre-contrato"},
		{"emoji dropped", "Recibo 🧾 2026", "Recibo_2026"},
		{"empty", "", ""},
		{"only symbols", "!@#$%", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.input); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
