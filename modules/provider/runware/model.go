package runware

// RunwareRequest - Runware API 요청 구조체
type RunwareRequest struct {
	TaskType        string   `json:"taskType"`
	TaskUUID        string   `json:"taskUUID"`
	PositivePrompt  string   `json:"positivePrompt"`
	Model           string   `json:"model"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	NumberResults   int      `json:"numberResults"`
	OutputFormat    string   `json:"outputFormat"`
	Seed            int64    `json:"seed,omitempty"`
	ReferenceImages []string `json:"referenceImages,omitempty"`
}

// RunwareResponse - Runware API 응답 구조체
type RunwareResponse struct {
	Data []struct {
		TaskType  string `json:"taskType"`
		TaskUUID  string `json:"taskUUID"`
		ImageURL  string `json:"imageURL"`
		ImageUUID string `json:"imageUUID"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

// Output - 생성 결과 (구조화된 프로바이더 출력)
type Output struct {
	TaskUUID string `json:"taskUUID"`
	ImageURL string `json:"imageURL"`
	Seed     int64  `json:"seed"`
}

// PrimaryURL - 결과 이미지 URL 반환
func (o *Output) PrimaryURL() string {
	return o.ImageURL
}
