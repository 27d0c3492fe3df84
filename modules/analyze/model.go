package analyze

// AnalyzeRequest - 제품 분석 요청
type AnalyzeRequest struct {
	ProductID string `json:"product_id"`
}

// ProductSummary - 분석 응답에 싣는 제품 요약
type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// AnalyzeResponse - 제품 분석 응답
type AnalyzeResponse struct {
	Success  bool           `json:"success"`
	Analysis string         `json:"analysis"`
	Product  ProductSummary `json:"product"`
	Cached   bool           `json:"cached"`
}
