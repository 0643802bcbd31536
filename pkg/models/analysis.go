package models

// AnalysisMapScope selects the heatmap geography
type AnalysisMapScope string

const (
	AnalysisScopeChina AnalysisMapScope = "china"
	AnalysisScopeWorld AnalysisMapScope = "world"
)

// AnalysisPeriod selects the reporting window
type AnalysisPeriod string

const (
	AnalysisPeriod7d  AnalysisPeriod = "7d"
	AnalysisPeriod30d AnalysisPeriod = "30d"
	AnalysisPeriod90d AnalysisPeriod = "90d"
	AnalysisPeriodAll AnalysisPeriod = "all"
)

// AnalysisHeatPoint is one location bucket of the download heatmap
type AnalysisHeatPoint struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Downloads    int64   `json:"downloads"`
	Longitude    float64 `json:"longitude,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	NormalizedX  float64 `json:"normalizedX,omitempty"`
	NormalizedY  float64 `json:"normalizedY,omitempty"`
	CountryCode  string  `json:"countryCode,omitempty"`
	ProvinceCode string  `json:"provinceCode,omitempty"`
}

// AnalysisHeatmapSummary aggregates the heatmap
type AnalysisHeatmapSummary struct {
	TotalDownloads    int64 `json:"totalDownloads"`
	DistinctLocations int   `json:"distinctLocations"`
}

// AnalysisHeatmapResponse is the creator heatmap payload
type AnalysisHeatmapResponse struct {
	Scope       AnalysisMapScope       `json:"scope"`
	Period      AnalysisPeriod         `json:"period"`
	GeneratedAt string                 `json:"generatedAt,omitempty"`
	IsPlus      bool                   `json:"isPlus"`
	Accessible  bool                   `json:"accessible"`
	Summary     AnalysisHeatmapSummary `json:"summary"`
	Points      []AnalysisHeatPoint    `json:"points"`
}

// AnalysisOverviewSummary aggregates the creator overview
type AnalysisOverviewSummary struct {
	Resources     int64   `json:"resources"`
	Views         int64   `json:"views"`
	Downloads     int64   `json:"downloads"`
	AverageRating float64 `json:"averageRating"`
}

// AnalysisDailyDownloads is one day of the download series
type AnalysisDailyDownloads struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AnalysisOverviewResponse is the creator overview payload
type AnalysisOverviewResponse struct {
	Period         AnalysisPeriod           `json:"period"`
	GeneratedAt    string                   `json:"generatedAt,omitempty"`
	Summary        AnalysisOverviewSummary  `json:"summary"`
	Ratings        map[string]int64         `json:"ratings"`
	DailyDownloads []AnalysisDailyDownloads `json:"dailyDownloads"`
}

// DashboardOverviewData summarizes today's and this week's downloads
type DashboardOverviewData struct {
	TodayDownloads             int64   `json:"todayDownloads"`
	WeekDownloads              int64   `json:"weekDownloads"`
	DayOverDayChangeValue      float64 `json:"dayOverDayChangeValue"`
	DayOverDayChangeDirection  string  `json:"dayOverDayChangeDirection"`
	DayOverDayChangeAccessible bool    `json:"dayOverDayChangeAccessible"`
	DayOverDayChangeIsPlus     bool    `json:"dayOverDayChangeIsPlus"`
}

// DashboardTopDownloadItem names a top resource or device
type DashboardTopDownloadItem struct {
	Name      string `json:"name"`
	Downloads int64  `json:"downloads"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// DashboardTopDownloadsData holds the top resource and device
type DashboardTopDownloadsData struct {
	TopResource *DashboardTopDownloadItem `json:"topResource,omitempty"`
	TopDevice   *DashboardTopDownloadItem `json:"topDevice,omitempty"`
}

// DashboardDistributionItem is one slice of a download distribution
type DashboardDistributionItem struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Downloads  int64   `json:"downloads"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color,omitempty"`
}

// DashboardDistributions groups distributions by dimension
type DashboardDistributions struct {
	Resources []DashboardDistributionItem `json:"resources"`
	Devices   []DashboardDistributionItem `json:"devices"`
}

// DashboardResponse is the creator console home payload
type DashboardResponse struct {
	GeneratedAt             string                    `json:"generatedAt,omitempty"`
	Overview                DashboardOverviewData     `json:"overview"`
	TopDownloads            DashboardTopDownloadsData `json:"topDownloads"`
	Distributions           DashboardDistributions    `json:"distributions"`
	DistributionsIsPlus     bool                      `json:"distributionsIsPlus"`
	DistributionsAccessible bool                      `json:"distributionsAccessible"`
}
