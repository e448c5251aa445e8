package models

// Catalog spreadsheet columns, in export order.
const (
	ColumnID        = "id"
	ColumnLabel     = "label"
	ColumnCategory  = "category"
	ColumnMaxScore  = "max_score"
	ColumnDroppable = "droppable"
	ColumnDate      = "date"
	ColumnDue       = "due"
)

// CatalogColumns is the header row of an exported catalog.
var CatalogColumns = []string{
	ColumnID, ColumnLabel, ColumnCategory, ColumnMaxScore, ColumnDroppable, ColumnDate, ColumnDue,
}

// ImportValidationError reports one bad cell of an imported catalog.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}
