package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"eventhub/events-service/internal/app/events/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// ReviewRepositoryTestSuite тестовый suite для репозитория отзывов
type ReviewRepositoryTestSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	sqlDB *sql.DB
	repo  ReviewRepository
}

func TestReviewRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReviewRepositoryTestSuite))
}

func (s *ReviewRepositoryTestSuite) SetupTest() {
	db, mock, sqlDB := newMockDB(s.T())
	s.mock, s.sqlDB = mock, sqlDB
	s.repo = NewReviewRepository(db)
}

func (s *ReviewRepositoryTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.sqlDB.Close()
}

func (s *ReviewRepositoryTestSuite) TestCreate_Success() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	err := s.repo.Create(context.Background(), &entity.Review{
		ID:         uuid.New(),
		EventID:    uuid.New(),
		UserID:     uuid.New(),
		Username:   "bob",
		ReviewText: "Great",
		Rating:     5,
	})
	s.NoError(err)
}

func (s *ReviewRepositoryTestSuite) TestListByEvent_ProjectsColumns() {
	eventID := uuid.New()
	sentiment := "positive"

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","event_id","user_id","username","review_text","rating","sentiment","admin_response","created_at" FROM "reviews" WHERE event_id = $1 ORDER BY created_at ASC`)).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "user_id", "username", "review_text", "rating", "sentiment", "admin_response", "created_at"}).
			AddRow(uuid.New(), eventID, uuid.New(), "bob", "Great", 5, sentiment, nil, time.Now()).
			AddRow(uuid.New(), eventID, uuid.New(), "carol", "Meh", 3, nil, "Thanks", time.Now()))

	reviews, err := s.repo.ListByEvent(context.Background(), eventID)

	s.NoError(err)
	s.Len(reviews, 2)
	s.Equal("positive", *reviews[0].Sentiment)
	s.Nil(reviews[0].AdminResponse)
	s.Equal("Thanks", *reviews[1].AdminResponse)
}

func (s *ReviewRepositoryTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	review, err := s.repo.GetByID(context.Background(), uuid.New())

	s.ErrorIs(err, ErrReviewNotFound)
	s.Nil(review)
}

func (s *ReviewRepositoryTestSuite) TestSetAdminResponse() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reviews" SET "admin_response"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reviews" SET "admin_response"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.NoError(s.repo.SetAdminResponse(context.Background(), uuid.New(), "Thanks"))
	s.ErrorIs(s.repo.SetAdminResponse(context.Background(), uuid.New(), "Thanks"), ErrReviewNotFound)
}

func (s *ReviewRepositoryTestSuite) TestDelete_NotFound() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reviews" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.ErrorIs(s.repo.Delete(context.Background(), uuid.New()), ErrReviewNotFound)
}
