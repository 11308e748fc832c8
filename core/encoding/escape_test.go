package encoding

import "testing"

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"verse text", "In the beginning God created", "In the beginning God created"},
		{"ampersand", "Moses & Aaron", "Moses &amp; Aaron"},
		{"angle brackets", "<i>selah</i>", "&lt;i&gt;selah&lt;/i&gt;"},
		{"quotes", `saying, "Let there be light"`, "saying, &#34;Let there be light&#34;"},
		{"apostrophe", "Lord's", "Lord&#39;s"},
		{"cyrillic", "Бог & мир", "Бог &amp; мир"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeXML(tt.input); got != tt.want {
				t.Errorf("EscapeXML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLTextAndAttr(t *testing.T) {
	tests := []struct {
		input    string
		wantText string
		wantAttr string
	}{
		{"", "", ""},
		{"Song of Songs", "Song of Songs", "Song of Songs"},
		{`"1 & 2" <Kings>`, `"1 &amp; 2" &lt;Kings&gt;`, `&quot;1 &amp; 2&quot; &lt;Kings&gt;`},
	}

	for _, tt := range tests {
		if got := EscapeXMLText(tt.input); got != tt.wantText {
			t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.wantText)
		}
		if got := EscapeXMLAttr(tt.input); got != tt.wantAttr {
			t.Errorf("EscapeXMLAttr(%q) = %q, want %q", tt.input, got, tt.wantAttr)
		}
	}
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Psalms & Proverbs", "Psalms &amp; Proverbs"},
		{`<script>alert("x")</script>`, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"},
		{"it's", "it's"},
	}

	for _, tt := range tests {
		if got := EscapeHTML(tt.input); got != tt.want {
			t.Errorf("EscapeHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
