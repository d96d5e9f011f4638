package prokerala

import (
	"fmt"
	"html"
	"time"
)

// Prediction is a single daily horoscope prediction. The text has HTML
// entities already unescaped.
type Prediction struct {
	SignID   int
	SignName string
	Date     time.Time
	Text     string
}

// DateString returns the prediction date in ISO format (YYYY-MM-DD).
func (p Prediction) DateString() string {
	return p.Date.Format("2006-01-02")
}

type predictionEnvelope struct {
	Data struct {
		DailyPrediction predictionPayload `json:"daily_prediction"`
	} `json:"data"`
}

type predictionPayload struct {
	SignID     int    `json:"sign_id"`
	SignName   string `json:"sign_name"`
	Date       string `json:"date"`
	Prediction string `json:"prediction"`
}

func (pp predictionPayload) toPrediction() (*Prediction, error) {
	date, err := time.Parse("2006-01-02", pp.Date)
	if err != nil {
		return nil, &APIError{
			Code:    ErrCodeDecode,
			Message: fmt.Sprintf("unparseable prediction date %q", pp.Date),
			Cause:   err,
		}
	}
	return &Prediction{
		SignID:   pp.SignID,
		SignName: pp.SignName,
		Date:     date,
		Text:     html.UnescapeString(pp.Prediction),
	}, nil
}
