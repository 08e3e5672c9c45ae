package extract

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipsScriptsAndStyles(t *testing.T) {
	page := `
	<html>
	<head>
		<title>Steam Deck</title>
		<script>var label = "Add to Cart";</script>
		<style>.sold-out { display: none }</style>
	</head>
	<body>
		<h1>Steam   Deck OLED</h1>
		<noscript>Sold Out</noscript>
		<p>Out of stock</p>
	</body>
	</html>
	`

	text, err := VisibleText(page)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(text, "Add to Cart") {
		t.Errorf("Expected script content to be skipped, got %q", text)
	}
	if strings.Contains(text, "sold-out") || strings.Contains(text, "Sold Out") {
		t.Errorf("Expected style and noscript content to be skipped, got %q", text)
	}
	if !strings.Contains(text, "Steam Deck OLED") {
		t.Errorf("Expected collapsed heading text, got %q", text)
	}
	if !strings.Contains(text, "Out of stock") {
		t.Errorf("Expected paragraph text, got %q", text)
	}
}

func TestVisibleText_PlainText(t *testing.T) {
	text, err := VisibleText("steam deck buy now")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "steam deck buy now" {
		t.Errorf("Expected text unchanged, got %q", text)
	}
}

func TestVisibleText_Empty(t *testing.T) {
	text, err := VisibleText("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text, got %q", text)
	}
}
