package dto

// FeatureQuota 单项功能的当日配额
type FeatureQuota struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

// QuotaInfo 配额信息
type QuotaInfo struct {
	Day       string        `json:"day"`
	Plan      string        `json:"plan"`
	Friends   int64         `json:"friends"`
	Posts     *FeatureQuota `json:"posts"`
	Questions *FeatureQuota `json:"questions"`
}
