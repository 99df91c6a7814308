package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/recommendation"
)

const visionInstruction = "Analyse cette image et retourne UNIQUEMENT le JSON demandé, sans aucun texte supplémentaire."

const visionVocabulary = `Tu es un expert en mode et style vestimentaire.
Analyse l'image fournie et retourne UNIQUEMENT un objet JSON structuré.

VALEURS NORMALISÉES :
- Colors: white, black, grey, light-grey, dark-grey, navy, blue, light-blue, red, burgundy, pink, green, khaki, olive, yellow, orange, purple, brown, beige, cream
- Materials: coton, laine, denim, cuir, synthétique, lin, soie, velours, cachemire, polyester, nylon
- Patterns: uni, rayé, carreaux, fleuri, logo, imprimé, graphique, camouflage, pois, géométrique
- Fits: slim, regular, loose, oversized, skinny, relaxed, straight, tapered
- Styles: casual, formel, sportif, streetwear, chic, bohème, minimaliste, rock, vintage, preppy, workwear
- Occasions: travail, soirée, weekend, sport, casual, cérémonie, vacances, quotidien
- Seasons: spring, summer, fall, winter

TYPES DE PIÈCES :
- Hauts: tshirt, shirt, blouse, top, tank_top, sweater, pullover, hoodie, cardigan
- Vestes: jacket, coat, blazer, vest, parka
- Bas: pants, jeans, shorts, skirt, leggings
- Robes: dress, jumpsuit
- Chaussures: shoes, sneakers, boots, sandals, heels
- Accessoires: bag, belt, hat, scarf, jewelry
`

const pieceSchema = `{
      "piece_type": "[type exact de la pièce]",
      "name": "[nom court en français]",
      "attributes": {
        "colors": {"primary": ["couleur1"], "secondary": []},
        "material": "[matière principale]",
        "pattern": "[motif]",
        "fit": "[coupe]",
        "details": ["détail1"]
      },
      "style_tags": ["style1"],
      "occasion_tags": ["occasion1"],
      "seasonality": ["season1"],
      "bounding_box": {"x": 0.1, "y": 0.1, "width": 0.5, "height": 0.4}
    }`

// VisionPrompt returns the system prompt for the given capture type
func VisionPrompt(captureType analysis.CaptureType) string {
	if captureType == analysis.CaptureTypeSinglePiece {
		return visionVocabulary + `
CONSIGNE : Analyse la pièce de vêtement UNIQUE visible dans l'image.

Retourne ce JSON EXACT :
{
  "capture_type": "single_piece",
  "pieces": [
    ` + pieceSchema + `
  ]
}`
	}

	return visionVocabulary + `
CONSIGNE : Analyse la TENUE COMPLÈTE visible dans l'image. Identifie TOUTES les pièces.
Les coordonnées de bounding_box sont relatives à l'image, entre 0 et 1.

Retourne ce JSON EXACT :
{
  "capture_type": "complete_look",
  "pieces": [
    ` + pieceSchema + `
  ],
  "look_meta": {
    "dominant_style": ["style principal"],
    "occasion_tags": ["occasion globale"],
    "seasonality": ["season1", "season2"],
    "color_palette_global": {"primary": ["couleur1"], "accent": ["couleur_accent"]},
    "pattern_mix": ["pattern1"],
    "silhouette": "slim_top_loose_bottom",
    "layering_level": 1
  }
}`
}

const stylistSystemPrompt = `Tu es un styliste personnel expert qui recommande des tenues basées sur:
1. La météo actuelle et prévue
2. Les vêtements disponibles dans la garde-robe
3. Les besoins spécifiques de l'utilisateur (si fournis)
4. La saison actuelle

Tu dois analyser la garde-robe et recommander les meilleures combinaisons ou pièces uniques.
Priorise les tenues complètes quand c'est pertinent.
Réponds UNIQUEMENT avec un JSON valide.`

const stylistRules = `RÈGLES MÉTÉO OBLIGATOIRES:
- Si température >= 30°C: INTERDITS pulls, sweats, vestes chaudes, laine, cachemire, velours
- Si température 20-29°C: INTERDITS pulls épais, doudounes, manteaux, parkas
- Si température 10-19°C: pulls légers, vestes, jeans, chemises manches longues
- Si température < 10°C: pulls chauds, manteaux, écharpes
- Si pluie: privilégier les pièces résistantes à l'eau

RÈGLES DE COMPOSITION:
- Une tenue complète (full_outfit) se recommande directement avec son id
- Une combinaison contient 1 haut + 1 bas, OU 1 robe seule, plus optionnellement veste, chaussures, accessoires
- Jamais une robe avec un haut ou un bas, jamais deux bas ensemble
- Une combinaison a pour id "combo-" suivi de TOUS les ids triés par ordre alphabétique et joints par "-"

Retourne UNIQUEMENT ce JSON:
{
  "recommendations": [
    {
      "id": "id_du_vetement_ou_combinaison",
      "score": 95,
      "reason": "Pourquoi cette recommandation est parfaite pour aujourd'hui",
      "weather_adaptation": "Pourquoi ces vêtements sont adaptés à la température (matières, coupe, épaisseur)",
      "style_tips": "Conseils de style supplémentaires"
    }
  ]
}

L'id doit correspondre à un id existant dans la garde-robe. Le score reflète la pertinence (0-100).`

type promptPiece struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	PieceType  string   `json:"piece_type,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Materials  []string `json:"materials,omitempty"`
	Seasons    []string `json:"seasons,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Style      string   `json:"style,omitempty"`
	IsFavorite bool     `json:"is_favorite,omitempty"`
}

// StylistPrompt renders the daily recommendation request
func StylistPrompt(req recommendation.StylistRequest) (string, error) {
	pieces := make([]promptPiece, len(req.Wardrobe))
	for i, p := range req.Wardrobe {
		pieces[i] = promptPiece{
			ID:         p.ID,
			Name:       p.Name,
			Category:   p.Category,
			PieceType:  p.PieceType,
			Brand:      p.Brand,
			Colors:     p.Colors,
			Materials:  p.Materials,
			Seasons:    p.Seasons,
			Tags:       p.Tags,
			Style:      p.Style,
			IsFavorite: p.IsFavorite,
		}
	}
	wardrobeJSON, err := json.Marshal(pieces)
	if err != nil {
		return "", fmt.Errorf("failed to encode wardrobe: %w", err)
	}

	w := req.Weather
	city := req.City
	if city == "" {
		city = w.City
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MÉTÉO À %s:\n", city)
	fmt.Fprintf(&b, "- %s\n", w.Description)
	fmt.Fprintf(&b, "- Température: %.1f°C\n", w.Temp)
	if w.TempMax != 0 || w.TempMin != 0 {
		fmt.Fprintf(&b, "- Max/Min aujourd'hui: %.1f°C / %.1f°C\n", w.TempMax, w.TempMin)
	}
	fmt.Fprintf(&b, "- Humidité: %.0f%%\n", w.Humidity)
	fmt.Fprintf(&b, "- Vent: %.0f km/h\n", w.Wind)
	fmt.Fprintf(&b, "- Précipitations: %.1fmm\n\n", w.Precipitation)
	fmt.Fprintf(&b, "SAISON: %s\n\n", req.Season)
	if needs := strings.TrimSpace(req.UserNeeds); needs != "" {
		fmt.Fprintf(&b, "BESOINS SPÉCIFIQUES: %s\n\n", needs)
	}

	b.WriteString("À ÉVITER ABSOLUMENT:\n")
	fmt.Fprintf(&b, "Portés récemment: %s\n", idList(req.Exclusions.RecentlyWornIDs))
	fmt.Fprintf(&b, "Items recommandés récemment: %s\n", idList(req.Exclusions.RecentlyRecommendedIDs))
	fmt.Fprintf(&b, "Combos recommandés récemment: %s\n\n", idList(req.Exclusions.RecentlyRecommendedCombos))

	b.WriteString("GARDE-ROBE DISPONIBLE:\n")
	b.Write(wardrobeJSON)
	b.WriteString("\n\n")
	b.WriteString(stylistRules)

	return b.String(), nil
}

func idList(ids []string) string {
	if len(ids) == 0 {
		return "Aucun"
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

const matchSystemPrompt = "Tu es un expert en coordination de tenues. Trouve les meilleures combinaisons."

// MatchPrompt renders a match-outfit request
func MatchPrompt(item map[string]any, wardrobe []map[string]any) (string, error) {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to encode item: %w", err)
	}
	wardrobeJSON, err := json.Marshal(wardrobe)
	if err != nil {
		return "", fmt.Errorf("failed to encode wardrobe: %w", err)
	}
	return fmt.Sprintf("Pour cet article %s, trouve les meilleures combinaisons parmi: %s", itemJSON, wardrobeJSON), nil
}

const suggestionsSystemPrompt = "Tu es un styliste personnel. Fournis des suggestions de tenues détaillées."

// SuggestionsPrompt renders a free-form suggestions request
func SuggestionsPrompt(preferences map[string]any) (string, error) {
	prefJSON, err := json.Marshal(preferences)
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return fmt.Sprintf("Suggère 5 tenues basées sur ces préférences: %s", prefJSON), nil
}
