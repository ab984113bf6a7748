package recommend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/mroshb/lunchmate/pkg/utils"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// DefaultCatalog is the built-in restaurant list used when no file is configured.
func DefaultCatalog() []models.Restaurant {
	return []models.Restaurant{
		{ID: "r1", Name: "김밥천국", Type: models.MenuKorean, Price: models.PriceLow, Distance: 3, Rating: 4.2},
		{ID: "r2", Name: "한솥도시락", Type: models.MenuKorean, Price: models.PriceLow, Distance: 4, Rating: 4.0},
		{ID: "r3", Name: "백반의민족", Type: models.MenuKorean, Price: models.PriceMid, Distance: 5, Rating: 4.5},
		{ID: "r4", Name: "스시로", Type: models.MenuJapanese, Price: models.PriceMid, Distance: 6, Rating: 4.3},
		{ID: "r5", Name: "이자카야 하나", Type: models.MenuJapanese, Price: models.PriceHigh, Distance: 8, Rating: 4.6},
		{ID: "r6", Name: "짬뽕지존", Type: models.MenuChinese, Price: models.PriceMid, Distance: 4, Rating: 4.1},
		{ID: "r7", Name: "딤섬하우스", Type: models.MenuChinese, Price: models.PriceHigh, Distance: 10, Rating: 4.7},
		{ID: "r8", Name: "샐러디", Type: models.MenuSalad, Price: models.PriceMid, Distance: 3, Rating: 4.4},
		{ID: "r9", Name: "써브웨이", Type: models.MenuSalad, Price: models.PriceLow, Distance: 2, Rating: 4.0},
		{ID: "r10", Name: "떡볶이천국", Type: models.MenuSnack, Price: models.PriceLow, Distance: 3, Rating: 4.2},
		{ID: "r11", Name: "피자헛", Type: models.MenuWestern, Price: models.PriceMid, Distance: 7, Rating: 4.0},
		{ID: "r12", Name: "파스타앤코", Type: models.MenuWestern, Price: models.PriceHigh, Distance: 9, Rating: 4.5},
	}
}

// LoadCatalog reads a catalog file; the format follows the extension (.yaml, .yml, .xlsx).
// An empty path yields DefaultCatalog.
func LoadCatalog(path string) ([]models.Restaurant, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to open catalog")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".xlsx":
		return LoadXLSX(f)
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unsupported catalog format: "+filepath.Ext(path))
	}
}

type yamlCatalog struct {
	Restaurants []models.Restaurant `yaml:"restaurants"`
}

func LoadYAML(r io.Reader) ([]models.Restaurant, error) {
	var doc yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to parse catalog yaml")
	}
	for i := range doc.Restaurants {
		normalize(&doc.Restaurants[i])
	}
	return doc.Restaurants, validateCatalog(doc.Restaurants)
}

// LoadXLSX reads the first sheet. Row 1 is a header; columns are
// id, name, type, price, distance, rating.
func LoadXLSX(r io.Reader) ([]models.Restaurant, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to open catalog workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "catalog workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to read catalog sheet")
	}

	var out []models.Restaurant
	for i, row := range rows {
		if i == 0 || len(row) < 4 { // Skip header or short rows
			continue
		}
		rest := models.Restaurant{
			ID:    row[0],
			Name:  row[1],
			Type:  models.Menu(row[2]),
			Price: models.PriceRange(row[3]),
		}
		if len(row) > 4 && row[4] != "" {
			if rest.Distance, err = strconv.Atoi(row[4]); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeValidation, fmt.Sprintf("row %d: bad distance", i+1))
			}
		}
		if len(row) > 5 && row[5] != "" {
			if rest.Rating, err = strconv.ParseFloat(row[5], 64); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeValidation, fmt.Sprintf("row %d: bad rating", i+1))
			}
		}
		normalize(&rest)
		out = append(out, rest)
	}
	return out, validateCatalog(out)
}

func normalize(rest *models.Restaurant) {
	rest.ID = strings.TrimSpace(rest.ID)
	rest.Name = strings.TrimSpace(rest.Name)
	rest.Type = models.Menu(utils.NormalizeKey(string(rest.Type)))
	rest.Price = models.PriceRange(utils.NormalizeKey(string(rest.Price)))
}

func validateCatalog(catalog []models.Restaurant) error {
	if len(catalog) == 0 {
		return errors.New(errors.ErrCodeValidation, "catalog has no restaurants")
	}
	seen := make(map[string]bool, len(catalog))
	for _, rest := range catalog {
		switch {
		case rest.ID == "" || rest.Name == "":
			return errors.New(errors.ErrCodeValidation, "restaurant id and name are required")
		case seen[rest.ID]:
			return errors.New(errors.ErrCodeValidation, "duplicate restaurant id: "+rest.ID)
		case !rest.Type.Valid():
			return errors.New(errors.ErrCodeValidation, fmt.Sprintf("restaurant %s: unknown type %q", rest.ID, rest.Type))
		case !rest.Price.Valid():
			return errors.New(errors.ErrCodeValidation, fmt.Sprintf("restaurant %s: unknown price %q", rest.ID, rest.Price))
		}
		seen[rest.ID] = true
	}
	return nil
}
