// Package csv 读取抓取产出的餐厅数据集文件。
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/bytebites/caigentan/internal/core/catalog"
)

// columnSetters 把数据集的表头列名映射到 RawRow 字段。
// 不在表中的列被忽略，数据集新增列不影响读取。
var columnSetters = map[string]func(*catalog.RawRow, string){
	"name":                   func(r *catalog.RawRow, v string) { r.Name = v },
	"address":                func(r *catalog.RawRow, v string) { r.Address = v },
	"type":                   func(r *catalog.RawRow, v string) { r.Type = v },
	"tag":                    func(r *catalog.RawRow, v string) { r.Tag = v },
	"cost":                   func(r *catalog.RawRow, v string) { r.Cost = v },
	"rating":                 func(r *catalog.RawRow, v string) { r.Rating = v },
	"opentime_today":         func(r *catalog.RawRow, v string) { r.OpenTimeToday = v },
	"opentime_week":          func(r *catalog.RawRow, v string) { r.OpenTimeWeek = v },
	"tel":                    func(r *catalog.RawRow, v string) { r.Tel = v },
	"location":               func(r *catalog.RawRow, v string) { r.Location = v },
	"dp_cost":                func(r *catalog.RawRow, v string) { r.DPCost = v },
	"dp_rating":              func(r *catalog.RawRow, v string) { r.DPRating = v },
	"dp_taste_rating":        func(r *catalog.RawRow, v string) { r.DPTasteRating = v },
	"dp_env_rating":          func(r *catalog.RawRow, v string) { r.DPEnvRating = v },
	"dp_service_rating":      func(r *catalog.RawRow, v string) { r.DPServiceRating = v },
	"dp_comment_num":         func(r *catalog.RawRow, v string) { r.DPCommentNum = v },
	"dp_recommendation_dish": func(r *catalog.RawRow, v string) { r.DPRecommendationDish = v },
	"dp_comment_keywords":    func(r *catalog.RawRow, v string) { r.DPCommentKeywords = v },
	"dp_top3_comments":       func(r *catalog.RawRow, v string) { r.DPTop3Comments = v },
}

// ReadFile 读取数据集文件的全部行
func ReadFile(path string) ([]catalog.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}
	return rows, nil
}

// Read 按表头解析数据集。第一行必须是表头，列顺序任意。
func Read(r io.Reader) ([]catalog.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	setters := make([]func(*catalog.RawRow, string), len(header))
	known := 0
	for i, column := range header {
		if setter, ok := columnSetters[column]; ok {
			setters[i] = setter
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("no recognized columns in header: %v", header)
	}

	var rows []catalog.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}

		var row catalog.RawRow
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, value)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
