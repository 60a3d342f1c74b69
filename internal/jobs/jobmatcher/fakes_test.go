package jobmatcher

import (
	"context"
	"errors"

	"github.com/yungbote/neurobridge-backend/internal/clients/languagemodel"
)

type fakeLanguageModel struct {
	duplicateScores map[string]int
	duplicateErr    error
	matchScore      int
	matchComments   []languagemodel.Comment
	matchErr        error
	matchCalls      int
}

func (f *fakeLanguageModel) CheckDuplicate(ctx context.Context, textA, textB string) (int, error) {
	if f.duplicateErr != nil {
		return 0, f.duplicateErr
	}
	if f.duplicateScores != nil {
		if score, ok := f.duplicateScores[textB]; ok {
			return score, nil
		}
	}
	return 1, nil
}

func (f *fakeLanguageModel) Match(ctx context.Context, vacancyText, resumeText string) (int, []languagemodel.Comment, error) {
	f.matchCalls++
	if f.matchErr != nil {
		return 0, nil, f.matchErr
	}
	return f.matchScore, f.matchComments, nil
}

var errFakeProvider = errors.New("provider unavailable")

type fakeNotifier struct {
	notifications []string
}

func (f *fakeNotifier) SendNotification(ctx context.Context, message string) error {
	f.notifications = append(f.notifications, message)
	return nil
}

func (f *fakeNotifier) SendErrorNotification(ctx context.Context, err error, context string) error {
	return nil
}
