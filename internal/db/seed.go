package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all application tables.
//  2. Creates 20 users around central London with hashed passwords,
//     completed onboarding and randomized ages.
//  3. Generates match rows with ~70% like-class actions, every 3rd pair
//     forced mutual.
//  4. Creates a few friendships, pending requests and approved events.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	tables := []string{"participants", "events", "friendships", "friend_requests", "matches", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range tables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, table := range tables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}

	log.Println("Cleared existing data")

	// --- Seed Users, scattered around central London ---
	const baseLat, baseLon = 51.5074, -0.1278
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var userIDs []uint64
	for i := 1; i <= 20; i++ {
		age := 21 + r.Intn(20)
		lat := baseLat + (r.Float64()-0.5)*0.2
		lon := baseLon + (r.Float64()-0.5)*0.2
		now := time.Now()

		gender := "male"
		if i > 10 {
			gender = "female"
		}

		user := User{
			ExternalUID:           fmt.Sprintf("seed-uid-%d", i),
			Email:                 fmt.Sprintf("user%d@example.com", i),
			PasswordHash:          string(hash),
			DisplayName:           fmt.Sprintf("user%d", i),
			Bio:                   "Seeded demo profile",
			Interests:             []string{"music", "hiking", "food"},
			Age:                   &age,
			Gender:                gender,
			LastLatitude:          &lat,
			LastLongitude:         &lon,
			LastLocationUpdate:    &now,
			IsProfileVisible:      true,
			IsOnboardingCompleted: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		userIDs = append(userIDs, user.ID)
	}
	log.Println("Seeded 20 users.")

	// --- Seed Matches ---
	counter := 0
	for _, actorID := range userIDs {
		for j := 0; j < 8; j++ {
			targetID := userIDs[r.Intn(len(userIDs))]
			if targetID == actorID {
				continue
			}

			action := ActionLike
			if r.Float64() > 0.7 {
				action = ActionDislike
			}

			low, high := PairOrder(actorID, targetID)
			match := Match{
				UserAID:     actorID,
				UserBID:     targetID,
				PairLowID:   low,
				PairHighID:  high,
				UserAAction: &action,
			}

			mutual := counter%3 == 0 && action == ActionLike
			if mutual {
				back := ActionLike
				match.UserBAction = &back
				match.IsMutual = true
				matchedAt := time.Now()
				match.MatchedAt = &matchedAt
			}

			err := db.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&match).Error
			if err != nil {
				return fmt.Errorf("failed to seed match: %w", err)
			}
			counter++
		}
	}
	log.Printf("Seeded %d match rows.", counter)

	// --- Seed Friendships and pending requests ---
	for i := 0; i+1 < len(userIDs) && i < 10; i += 2 {
		u1, u2 := PairOrder(userIDs[i], userIDs[i+1])
		request := FriendRequest{
			RequesterID: userIDs[i],
			AddresseeID: userIDs[i+1],
			Status:      FriendRequestAccepted,
		}
		respondedAt := time.Now()
		request.RespondedAt = &respondedAt
		if err := db.Omit(clause.Associations).Create(&request).Error; err != nil {
			return fmt.Errorf("failed to seed friend request: %w", err)
		}
		friendship := Friendship{User1ID: u1, User2ID: u2}
		if err := db.Omit(clause.Associations).Create(&friendship).Error; err != nil {
			return fmt.Errorf("failed to seed friendship: %w", err)
		}
	}
	for i := 10; i+1 < len(userIDs); i += 2 {
		request := FriendRequest{
			RequesterID: userIDs[i],
			AddresseeID: userIDs[i+1],
			Status:      FriendRequestPending,
		}
		if err := db.Omit(clause.Associations).Create(&request).Error; err != nil {
			return fmt.Errorf("failed to seed friend request: %w", err)
		}
	}
	log.Println("Seeded friendships and requests.")

	// --- Seed Events around the same city ---
	categories := []string{"music", "sports", "food", "tech", "art"}
	for i := 0; i < 10; i++ {
		lat := baseLat + (r.Float64()-0.5)*0.3
		lon := baseLon + (r.Float64()-0.5)*0.3
		creatorID := userIDs[r.Intn(len(userIDs))]
		maxParticipants := 10 + r.Intn(40)

		event := Event{
			Title:           fmt.Sprintf("Demo event %d", i+1),
			Description:     "Seeded demo event",
			Category:        categories[i%len(categories)],
			Location:        "London",
			Latitude:        &lat,
			Longitude:       &lon,
			DateTime:        time.Now().Add(time.Duration(24+r.Intn(240)) * time.Hour),
			Price:           float64(r.Intn(50)),
			IsOnline:        i%5 == 4,
			Status:          EventApproved,
			MaxParticipants: &maxParticipants,
			CreatedByID:     &creatorID,
		}
		if err := db.Omit(clause.Associations).Create(&event).Error; err != nil {
			return fmt.Errorf("failed to seed event: %w", err)
		}

		for j := 0; j < 3; j++ {
			participant := Participant{
				UserID:  userIDs[r.Intn(len(userIDs))],
				EventID: event.ID,
				Status:  ParticipantGoing,
			}
			db.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&participant)
		}
	}
	log.Println("Seeded 10 events.")

	return nil
}
