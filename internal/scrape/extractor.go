// Package scrape extracts recipe records from fetched listing and detail
// pages. Extraction is a pure function over a parsed document: a missing DOM
// node degrades to an absent field, never an error.
package scrape

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/nmarzin/gourmand/internal/domain"
	"github.com/nmarzin/gourmand/internal/fetch"
	"github.com/nmarzin/gourmand/internal/textutil"
)

// Opt is an optionally-present extracted string. The sentinel rendering is
// deferred to Recipe(), keeping absence explicit during extraction.
type Opt struct {
	Value string
	Found bool
}

// Or returns the extracted value, or def when the field was absent.
func (o Opt) Or(def string) string {
	if o.Found {
		return o.Value
	}
	return def
}

func opt(v string) Opt {
	return Opt{Value: v, Found: v != ""}
}

// IngredientExtraction holds one extracted ingredient block, each sub-field
// independently optional.
type IngredientExtraction struct {
	Name       Opt
	Quantity   Opt
	Unit       Opt
	Complement Opt
}

// PageExtraction is the result of extracting one recipe page.
type PageExtraction struct {
	Title       Opt
	PrepTime    Opt
	RestTime    Opt
	CookTime    Opt
	Ingredients []IngredientExtraction
	Steps       []string
	ImageURL    Opt
}

// ExtractRecipePage pulls the recipe fields out of a parsed detail page.
// Every field is independently optional; the function never fails.
func ExtractRecipePage(doc *html.Node) PageExtraction {
	var ex PageExtraction

	if container := fetch.FindByClass(doc, "div", "main-title"); container != nil {
		ex.Title = opt(fetch.Text(fetch.First(container, "h1")))
	}

	if item := fetch.FindByClass(doc, "div", "recipe-primary__item"); item != nil {
		ex.PrepTime = opt(fetch.Text(fetch.First(item, "span")))
	}

	ex.RestTime, ex.CookTime = timesFromDetailsBlock(fetch.FindByClass(doc, "div", "time__details"))

	for _, section := range fetch.FindAllByClass(doc, "span", "card-ingredient-title") {
		ex.Ingredients = append(ex.Ingredients, IngredientExtraction{
			Name:       opt(fetch.Text(fetch.FindByClass(section, "span", "ingredient-name"))),
			Quantity:   opt(fetch.Text(fetch.FindByClass(section, "span", "count"))),
			Unit:       opt(fetch.Text(fetch.FindByClass(section, "span", "unit"))),
			Complement: opt(fetch.Text(fetch.FindByClass(section, "span", "ingredient-complement"))),
		})
	}

	for _, container := range fetch.FindAllByClass(doc, "div", "recipe-step-list__container") {
		for _, p := range fetch.FindAll(container, "p") {
			if text := fetch.Text(p); text != "" {
				ex.Steps = append(ex.Steps, text)
			}
		}
	}

	if media := fetch.FindByClass(doc, "div", "recipe-media-viewer-media-container recipe-media-viewer-media-container-picture-only"); media != nil {
		url := fetch.Attr(media, "data-src")
		if url == "" {
			url = fetch.Attr(media, "src")
		}
		ex.ImageURL = opt(url)
	}

	return ex
}

// timesFromDetailsBlock resolves the rest and cook times inside the
// "time details" block. Fields are located by their label text first; the
// original page layout is only known to expose the values at child positions
// 3 and 5, so that positional lookup remains as the fallback and is kept
// isolated here.
func timesFromDetailsBlock(block *html.Node) (rest, cook Opt) {
	if block == nil {
		return Opt{}, Opt{}
	}

	divs := fetch.ElementChildren(block, "div")

	rest = timeByLabel(divs, "repos")
	cook = timeByLabel(divs, "cuisson")

	if !rest.Found && len(divs) > 3 {
		rest = opt(fetch.Text(divs[3]))
	}
	if !cook.Found && len(divs) > 5 {
		cook = opt(fetch.Text(divs[5]))
	}
	return rest, cook
}

// timeByLabel finds the child div whose text mentions the label and returns
// the text of the following sibling div (the value cell).
func timeByLabel(divs []*html.Node, label string) Opt {
	for i, d := range divs {
		if strings.Contains(textutil.Normalize(fetch.Text(d)), label) && i+1 < len(divs) {
			return opt(fetch.Text(divs[i+1]))
		}
	}
	return Opt{}
}

// Recipe renders the extraction into a recipe document for the given
// category, applying the stored sentinel strings for absent fields and
// normalizing ingredient names and units for matching.
func (ex PageExtraction) Recipe(category string) domain.Recipe {
	recipe := domain.Recipe{
		Category: category,
		Title:    ex.Title.Or(domain.SentinelTitle),
		PrepTime: ex.PrepTime.Or(domain.SentinelPrepTime),
		RestTime: ex.RestTime.Or(domain.SentinelRestTime),
		CookTime: ex.CookTime.Or(domain.SentinelCookTime),
		Steps:    ex.Steps,
		ImageURL: ex.ImageURL.Or(domain.SentinelImage),
	}

	for _, ing := range ex.Ingredients {
		ingredient := domain.Ingredient{
			Name:       domain.SentinelName,
			Quantity:   ing.Quantity.Or(domain.SentinelQuantity),
			Unit:       domain.SentinelUnit,
			Complement: ing.Complement.Or(domain.SentinelComplement),
		}
		if ing.Name.Found {
			ingredient.Name = textutil.Normalize(ing.Name.Value)
		}
		if ing.Unit.Found {
			ingredient.Unit = textutil.Normalize(ing.Unit.Value)
		}
		recipe.Ingredients = append(recipe.Ingredients, ingredient)
	}

	return recipe
}
