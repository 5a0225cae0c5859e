package scrape

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/nmarzin/gourmand/internal/domain"
)

const fullPage = `<html><body>
<div class="main-title"><h1> Tarte aux Pommes </h1></div>
<div class="recipe-primary__item"><span>25 min</span></div>
<div class="time__details">
  <div>Préparation</div><div>25 min</div>
  <div>Repos</div><div>1 h</div>
  <div>Cuisson</div><div>45 min</div>
</div>
<span class="card-ingredient-title">
  <span class="ingredient-name">Pommes</span>
  <span class="count">4</span>
  <span class="unit">Pièces</span>
  <span class="ingredient-complement">épluchées</span>
</span>
<span class="card-ingredient-title">
  <span class="ingredient-name">Sucre</span>
</span>
<div class="recipe-step-list__container"><p>Préchauffer le four.</p><p>Étaler la pâte.</p></div>
<div class="recipe-step-list__container"><p>Enfourner 45 minutes.</p></div>
<div class="recipe-media-viewer-media-container recipe-media-viewer-media-container-picture-only" data-src="https://img.example/tarte.jpg"></div>
</body></html>`

func parsePage(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestExtractRecipePage(t *testing.T) {
	recipe := ExtractRecipePage(parsePage(t, fullPage)).Recipe("Healthy")

	if recipe.Title != "Tarte aux Pommes" {
		t.Errorf("title = %q", recipe.Title)
	}
	if recipe.Category != "Healthy" {
		t.Errorf("category = %q", recipe.Category)
	}
	if recipe.PrepTime != "25 min" {
		t.Errorf("prep_time = %q", recipe.PrepTime)
	}
	if recipe.RestTime != "1 h" {
		t.Errorf("rest_time = %q", recipe.RestTime)
	}
	if recipe.CookTime != "45 min" {
		t.Errorf("cook_time = %q", recipe.CookTime)
	}
	if recipe.ImageURL != "https://img.example/tarte.jpg" {
		t.Errorf("image_url = %q", recipe.ImageURL)
	}

	if len(recipe.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2", len(recipe.Ingredients))
	}
	first := recipe.Ingredients[0]
	if first.Name != "pommes" || first.Quantity != "4" || first.Unit != "pieces" || first.Complement != "épluchées" {
		t.Errorf("first ingredient = %+v", first)
	}

	// Sub-fields default independently.
	second := recipe.Ingredients[1]
	if second.Name != "sucre" {
		t.Errorf("second ingredient name = %q", second.Name)
	}
	if second.Quantity != domain.SentinelQuantity || second.Unit != domain.SentinelUnit || second.Complement != domain.SentinelComplement {
		t.Errorf("second ingredient defaults = %+v", second)
	}

	wantSteps := []string{"Préchauffer le four.", "Étaler la pâte.", "Enfourner 45 minutes."}
	if len(recipe.Steps) != len(wantSteps) {
		t.Fatalf("got %d steps, want %d", len(recipe.Steps), len(wantSteps))
	}
	for i, step := range wantSteps {
		if recipe.Steps[i] != step {
			t.Errorf("step %d = %q, want %q", i, recipe.Steps[i], step)
		}
	}
}

func TestExtractRecipePageMissingTimeBlock(t *testing.T) {
	page := `<html><body><div class="main-title"><h1>Salade</h1></div></body></html>`
	recipe := ExtractRecipePage(parsePage(t, page)).Recipe("Vegan")

	if recipe.RestTime != domain.SentinelRestTime {
		t.Errorf("rest_time = %q, want sentinel", recipe.RestTime)
	}
	if recipe.CookTime != domain.SentinelCookTime {
		t.Errorf("cook_time = %q, want sentinel", recipe.CookTime)
	}
	if recipe.PrepTime != domain.SentinelPrepTime {
		t.Errorf("prep_time = %q, want sentinel", recipe.PrepTime)
	}
	if recipe.ImageURL != domain.SentinelImage {
		t.Errorf("image_url = %q, want sentinel", recipe.ImageURL)
	}
}

func TestExtractRecipePageEmptyDocument(t *testing.T) {
	recipe := ExtractRecipePage(parsePage(t, "<html></html>")).Recipe("Vegan")
	if recipe.Title != domain.SentinelTitle {
		t.Errorf("title = %q, want sentinel", recipe.Title)
	}
	if len(recipe.Ingredients) != 0 || len(recipe.Steps) != 0 {
		t.Errorf("unexpected content: %+v", recipe)
	}
}

func TestTimesPositionalFallback(t *testing.T) {
	// No recognizable labels: positions 3 and 5 are used.
	page := `<html><body><div class="time__details">
	<div>a</div><div>b</div><div>c</div><div>2 h</div><div>e</div><div>30 min</div>
	</div></body></html>`
	ex := ExtractRecipePage(parsePage(t, page))

	if got := ex.RestTime.Or(""); got != "2 h" {
		t.Errorf("rest = %q, want positional child 3", got)
	}
	if got := ex.CookTime.Or(""); got != "30 min" {
		t.Errorf("cook = %q, want positional child 5", got)
	}
}

func TestImageFallsBackToSrc(t *testing.T) {
	page := `<html><body><div class="recipe-media-viewer-media-container recipe-media-viewer-media-container-picture-only" src="https://img.example/p.jpg"></div></body></html>`
	ex := ExtractRecipePage(parsePage(t, page))
	if got := ex.ImageURL.Or(""); got != "https://img.example/p.jpg" {
		t.Errorf("image = %q", got)
	}
}
