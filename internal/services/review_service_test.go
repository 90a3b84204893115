package services

import (
	"testing"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/audit"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewRoles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	adminListing := seedListing(t, db, admin.ID, models.ApprovalApproved)

	req := &dto.CreateReviewRequest{Content: "Nice place", Rating: 5}

	fromRenter, err := svc.Create(listing.ID, renter, req)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewerRenter, fromRenter.Role)
	assert.Equal(t, models.ReviewPending, fromRenter.Status)

	fromOwner, err := svc.Create(listing.ID, owner, req)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewerLandlord, fromOwner.Role)
	assert.Equal(t, models.ReviewPending, fromOwner.Status)

	// An admin reviewing their own listing is still an admin reviewer,
	// and admin reviews skip moderation.
	fromAdmin, err := svc.Create(adminListing.ID, admin, req)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewerAdmin, fromAdmin.Role)
	assert.Equal(t, models.ReviewApproved, fromAdmin.Status)
}

func TestCreateReviewValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	_, err := svc.Create(listing.ID, renter, &dto.CreateReviewRequest{Rating: 0})
	assert.True(t, apperr.IsInvalid(err))

	_, err = svc.Create(listing.ID, renter, &dto.CreateReviewRequest{Rating: 6})
	assert.True(t, apperr.IsInvalid(err))

	_, err = svc.Create(9999, renter, &dto.CreateReviewRequest{Rating: 4})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateReviewMediaLimits(t *testing.T) {
	db := setupTestDB(t)
	cfg := testModerationConfig()
	svc := NewReviewService(db, cfg)
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	tooManyImages := make([]dto.ReviewMediaItem, cfg.MaxImagesPerReview+1)
	for i := range tooManyImages {
		tooManyImages[i] = dto.ReviewMediaItem{
			MediaType: models.MediaTypeImage,
			URL:       "https://cdn.example.com/img.jpg",
		}
	}
	_, err := svc.Create(listing.ID, renter, &dto.CreateReviewRequest{
		Rating: 4, Media: tooManyImages,
	})
	assert.True(t, apperr.IsInvalid(err))

	_, err = svc.Create(listing.ID, renter, &dto.CreateReviewRequest{
		Rating: 4,
		Media: []dto.ReviewMediaItem{{
			MediaType: models.MediaTypeVideo,
			URL:       "https://cdn.example.com/tour.mp4",
			Duration:  cfg.MaxVideoDurationSeconds + 1,
		}},
	})
	assert.True(t, apperr.IsInvalid(err))

	_, err = svc.Create(listing.ID, renter, &dto.CreateReviewRequest{
		Rating: 4,
		Media: []dto.ReviewMediaItem{{
			MediaType: models.MediaTypeImage,
			URL:       "not-a-url",
		}},
	})
	assert.True(t, apperr.IsInvalid(err))

	// A failed media validation leaves no orphan rows behind.
	var count int64
	db.Model(&models.Review{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateReviewWithMedia(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	review, err := svc.Create(listing.ID, renter, &dto.CreateReviewRequest{
		Content: "Video tour attached",
		Rating:  5,
		Media: []dto.ReviewMediaItem{
			{MediaType: models.MediaTypeVideo, URL: "https://cdn.example.com/tour.mp4", Duration: 90},
			{MediaType: models.MediaTypeImage, URL: "https://cdn.example.com/room.jpg"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "mixed", review.Type)
	require.Len(t, review.Media, 2)
}

func TestUpdateReviewAlwaysReturnsToPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, renter.ID, models.ReviewerRenter, models.ReviewApproved)

	// Submitting the exact stored values still demotes the review.
	title := review.Title
	content := review.Content
	rating := review.Rating
	updated, err := svc.Update(review.ID, renter.ID, &dto.UpdateReviewRequest{
		Title: &title, Content: &content, Rating: &rating,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, updated.Status)
}

func TestUpdateReviewAuthorOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	other := seedUser(t, db, "other", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, renter.ID, models.ReviewerRenter, models.ReviewApproved)

	title := "edited"
	_, err := svc.Update(review.ID, other.ID, &dto.UpdateReviewRequest{Title: &title})
	assert.True(t, apperr.IsForbidden(err))
}

func TestUpdateReviewKeepsFeaturedFlag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, renter.ID, models.ReviewerRenter, models.ReviewApproved)
	require.NoError(t, db.Model(review).Update("is_featured", true).Error)

	title := "edited"
	updated, err := svc.Update(review.ID, renter.ID, &dto.UpdateReviewRequest{Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
	assert.Equal(t, models.ReviewPending, updated.Status)
}

func TestModerateReview(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, renter.ID, models.ReviewerRenter, models.ReviewPending)

	approved, err := svc.Approve(review.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, approved.Status)
	assert.Len(t, auditEntries(t, db, audit.ActionApproveReview), 1)

	rejected, err := svc.Reject(review.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewRejected, rejected.Status)
	assert.Len(t, auditEntries(t, db, audit.ActionRejectReview), 1)
}

func TestModerateReviewWithoutAudit(t *testing.T) {
	db := setupTestDB(t)
	cfg := testModerationConfig()
	cfg.AuditReviewActions = false
	svc := NewReviewService(db, cfg)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, renter.ID, models.ReviewerRenter, models.ReviewPending)

	_, err := svc.Approve(review.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.Empty(t, auditEntries(t, db, audit.ActionApproveReview))
}

func TestToggleFeatured(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db, testModerationConfig())
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, renter.ID, models.ReviewerRenter, models.ReviewApproved)

	featured, err := svc.ToggleFeatured(review.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)

	unfeatured, err := svc.ToggleFeatured(review.ID, admin, "127.0.0.1")
	require.NoError(t, err)
	assert.False(t, unfeatured.IsFeatured)

	assert.Len(t, auditEntries(t, db, audit.ActionFeatureReview), 2)
}

func TestToggleMediaLike(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMediaService(db)
	owner := seedUser(t, db, "owner", models.RoleUser)
	renter := seedUser(t, db, "renter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, renter.ID, models.ReviewerRenter, models.ReviewApproved)

	media := models.ReviewMedia{
		ReviewID:  review.ID,
		MediaType: models.MediaTypeImage,
		URL:       "https://cdn.example.com/room.jpg",
	}
	require.NoError(t, db.Create(&media).Error)

	liked, count, err := svc.ToggleLike(media.ID, renter.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, count)

	liked, count, err = svc.ToggleLike(media.ID, renter.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, count)

	_, _, err = svc.ToggleLike(9999, renter.ID)
	assert.True(t, apperr.IsNotFound(err))
}
