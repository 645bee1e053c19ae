// Package demo wires the store together and drives the consistency
// demonstration: a full CRUD cycle over users and profiles, concurrent
// inserts over the bounded pool, and deliberate constraint violations
// proving that failed transactions leave no partial state.
package demo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dpetrovs/userstore/internal/common"
	"github.com/dpetrovs/userstore/internal/dbx"
	"github.com/dpetrovs/userstore/internal/demo/config"
	"github.com/dpetrovs/userstore/internal/logging"
	"github.com/dpetrovs/userstore/internal/randx"
	"github.com/dpetrovs/userstore/internal/repositories/repomanager"
	"github.com/dpetrovs/userstore/internal/services"
)

// concurrentInserts is the number of goroutines the pool demonstration runs.
const concurrentInserts = 5

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	users  *services.UserService
	pairs  *services.UserProfileService
	gen    randx.Generator
}

// NewApp connects to the store, applies migrations and builds the services.
// A connection failure (after the no-TLS retry) aborts startup.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, gen randx.Generator) (*App, error) {
	db, err := dbx.Open(ctx, cfg.DatabaseDSN, cfg.PoolMaxConns)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "database pool ready", "max_conns", cfg.PoolMaxConns)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	logger.Info(ctx, "schema is up to date")

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		users:  services.NewUserService(db, rm),
		pairs:  services.NewUserProfileService(db, rm),
		gen:    gen,
	}, nil
}

// Close releases the connection pool.
func (a *App) Close() error {
	return a.db.Close()
}

// Run executes the demonstration sequence. The constraint-violation steps
// must fail and must leave row counts unchanged; any other outcome is an
// error of the run itself.
func (a *App) Run(ctx context.Context) error {
	if err := a.runUserCycle(ctx); err != nil {
		return err
	}
	if err := a.runConcurrentInserts(ctx); err != nil {
		return err
	}
	if err := a.runUserRollbackProof(ctx); err != nil {
		return err
	}
	if err := a.runPairCycle(ctx); err != nil {
		return err
	}
	if err := a.runPairRollbackProof(ctx); err != nil {
		return err
	}
	a.deleteOldest(ctx)
	return a.logFinalState(ctx)
}

// runUserCycle inserts a user, reads it back, and updates its email.
func (a *App) runUserCycle(ctx context.Context) error {
	user, err := a.users.CreateUser(ctx, a.gen.Username(), a.gen.Email())
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	a.logger.Info(ctx, "user created", "id", user.ID, "username", user.Username, "email", user.Email)

	all, err := a.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	a.logger.Info(ctx, "users listed", "count", len(all))
	for _, u := range all {
		a.logger.Debug(ctx, "user row", "id", u.ID, "username", u.Username, "email", u.Email, "created_at", u.CreatedAt)
	}

	got, err := a.users.GetUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if got == nil {
		return fmt.Errorf("user %d vanished after create", user.ID)
	}
	a.logger.Info(ctx, "user fetched by id", "id", got.ID, "username", got.Username)

	updated, err := a.users.UpdateUserEmail(ctx, user.ID, "updated_"+user.Email)
	if err != nil {
		return fmt.Errorf("update user email: %w", err)
	}
	a.logger.Info(ctx, "user email updated", "id", updated.ID, "email", updated.Email)

	return nil
}

// runConcurrentInserts creates several users from parallel goroutines, each
// borrowing a pooled connection for the duration of its transaction.
func (a *App) runConcurrentInserts(ctx context.Context) error {
	type fields struct{ username, email string }

	// The generator is not goroutine-safe; draw the values up front.
	batch := make([]fields, concurrentInserts)
	for i := range batch {
		batch[i] = fields{username: a.gen.Username(), email: a.gen.Email()}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range batch {
		f := f
		g.Go(func() error {
			user, err := a.users.CreateUser(ctx, f.username, f.email)
			if err != nil {
				return err
			}
			a.logger.Debug(ctx, "concurrent insert committed", "id", user.ID, "username", user.Username)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("concurrent inserts: %w", err)
	}

	a.logger.Info(ctx, "concurrent inserts finished", "count", concurrentInserts)
	return nil
}

// runUserRollbackProof deliberately inserts a duplicate email and verifies
// that the failed transaction left the users table untouched.
func (a *App) runUserRollbackProof(ctx context.Context) error {
	all, err := a.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(all) == 0 {
		return errors.New("no users available for the rollback proof")
	}
	duplicate := all[0].Email

	before, err := a.users.CountUsers(ctx)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "attempting duplicate email insert", "email", duplicate)
	_, err = a.users.CreateUser(ctx, a.gen.Username(), duplicate)
	if err == nil {
		return errors.New("duplicate email insert unexpectedly succeeded")
	}
	if !errors.Is(err, common.ErrConstraintViolation) {
		a.logger.Warn(ctx, "duplicate insert failed with an unexpected class", "error", err)
	}
	a.logger.Info(ctx, "duplicate insert rejected, transaction rolled back", "error", err)

	after, err := a.users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if before != after {
		return fmt.Errorf("rollback left partial state: %d users before, %d after", before, after)
	}
	a.logger.Info(ctx, "row count unchanged after rollback", "users", after)

	return nil
}

// runPairCycle creates, updates and deletes a user together with its profile.
func (a *App) runPairCycle(ctx context.Context) error {
	user, profile, err := a.pairs.CreateUserWithProfile(ctx,
		a.gen.Username(), a.gen.Email(), a.gen.FullName(), nil, ptr(a.gen.AvatarURL()))
	if err != nil {
		return fmt.Errorf("create user with profile: %w", err)
	}
	a.logger.Info(ctx, "user and profile created atomically",
		"user_id", user.ID, "profile_id", profile.ID, "full_name", profile.FullName)

	err = a.pairs.UpdateUserAndProfile(ctx, user.ID,
		"updated_"+user.Email, "Updated "+profile.FullName, ptr("updated bio"), profile.AvatarURL)
	if err != nil {
		return fmt.Errorf("update user and profile: %w", err)
	}
	a.logger.Info(ctx, "user and profile updated atomically", "user_id", user.ID)

	if err := a.pairs.DeleteUserAndProfile(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user and profile: %w", err)
	}
	if p, err := a.pairs.GetProfileByUserID(ctx, user.ID); err != nil {
		return err
	} else if p != nil {
		return fmt.Errorf("profile %d outlived its user", p.ID)
	}
	a.logger.Info(ctx, "user and profile deleted atomically", "user_id", user.ID)

	return nil
}

// runPairRollbackProof reuses an existing username in a create-with-dependent
// sequence and verifies that neither table changed.
func (a *App) runPairRollbackProof(ctx context.Context) error {
	all, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return errors.New("no users available for the pair rollback proof")
	}
	duplicate := all[0].Username

	usersBefore, err := a.users.CountUsers(ctx)
	if err != nil {
		return err
	}
	profilesBefore, err := a.pairs.CountProfiles(ctx)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "attempting pair create with duplicate username", "username", duplicate)
	_, _, err = a.pairs.CreateUserWithProfile(ctx, duplicate, a.gen.Email(), a.gen.FullName(), nil, nil)
	if err == nil {
		return errors.New("duplicate username pair insert unexpectedly succeeded")
	}
	a.logger.Info(ctx, "pair insert rejected, transaction rolled back", "error", err)

	usersAfter, err := a.users.CountUsers(ctx)
	if err != nil {
		return err
	}
	profilesAfter, err := a.pairs.CountProfiles(ctx)
	if err != nil {
		return err
	}
	if usersBefore != usersAfter || profilesBefore != profilesAfter {
		return fmt.Errorf("rollback left partial state: users %d->%d, profiles %d->%d",
			usersBefore, usersAfter, profilesBefore, profilesAfter)
	}
	a.logger.Info(ctx, "row counts unchanged after rollback", "users", usersAfter, "profiles", profilesAfter)

	return nil
}

// deleteOldest removes the earliest-created user. This step is demonstrative
// and non-critical: a failure is logged, not propagated.
func (a *App) deleteOldest(ctx context.Context) {
	deleted, err := a.users.DeleteOldestUser(ctx)
	if err != nil {
		a.logger.Error(ctx, "delete oldest user failed", "error", err)
		return
	}
	if deleted == nil {
		a.logger.Warn(ctx, "no users left to delete")
		return
	}
	a.logger.Info(ctx, "oldest user deleted", "id", deleted.ID, "username", deleted.Username)
}

func (a *App) logFinalState(ctx context.Context) error {
	users, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	profiles, err := a.pairs.ListProfiles(ctx)
	if err != nil {
		return err
	}

	a.logger.Info(ctx, "final state", "users", len(users), "profiles", len(profiles))
	for _, u := range users {
		a.logger.Info(ctx, "final user row", "id", u.ID, "username", u.Username, "email", u.Email)
	}
	return nil
}

func ptr(s string) *string { return &s }
