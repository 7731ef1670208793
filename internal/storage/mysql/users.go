package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Email, u.PasswordHash, string(u.Role), string(u.Status), u.FullName,
		valStr(u.Phone), valStr(u.City))
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *Repo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var phone, city sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.FullName, &phone, &city, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	u.Phone = nullStr(phone)
	u.City = nullStr(city)
	return u, nil
}

// Existence and ownership are checked by the services before updates, so a
// zero rows-affected result (MySQL reports unchanged rows as zero) is not an
// error here.
func (r *Repo) UpdateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, updateUserSQL, u.FullName, valStr(u.Phone), valStr(u.City), u.ID)
	return err
}

func (r *Repo) SetUserStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET status=? WHERE id=?`, string(status), id)
	return err
}

func (r *Repo) ListUsers(ctx context.Context, pg domain.PageQuery) ([]domain.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, password_hash, role, status, full_name, phone, city, created_at, updated_at
		 FROM users ORDER BY id LIMIT ? OFFSET ?`, pg.PerPage, pg.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		var phone, city sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
			&u.FullName, &phone, &city, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		u.Phone = nullStr(phone)
		u.City = nullStr(city)
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *Repo) UpsertProfile(ctx context.Context, p domain.ProfessionalProfile) error {
	_, err := r.db.ExecContext(ctx, upsertProfileSQL,
		p.UserID, p.BusinessName, p.Category, valStr(p.Bio), valF64(p.HourlyRate), valStr(p.ServiceArea))
	return err
}

func (r *Repo) GetProfile(ctx context.Context, userID int64) (domain.ProfessionalProfile, error) {
	var p domain.ProfessionalProfile
	var bio, area sql.NullString
	var rate sql.NullFloat64
	err := r.db.QueryRowContext(ctx, getProfileSQL, userID).Scan(
		&p.UserID, &p.BusinessName, &p.Category, &bio, &rate, &area,
		&p.RatingAvg, &p.RatingCount, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.ProfessionalProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ProfessionalProfile{}, err
	}
	p.Bio = nullStr(bio)
	p.HourlyRate = nullF64(rate)
	p.ServiceArea = nullStr(area)
	return p, nil
}

func (r *Repo) ListProfessionals(ctx context.Context, q domain.ProfessionalsQuery) ([]domain.ProfessionalView, int, error) {
	where, args := professionalFilters(q)

	var total int
	countSQL := `SELECT COUNT(*) FROM professional_profiles p
JOIN users u ON u.id = p.user_id AND u.status = 'active'` + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := listProfessionalsPrefix + where +
		` ORDER BY p.rating_avg DESC, p.rating_count DESC, u.id LIMIT ? OFFSET ?`
	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.ProfessionalView
	for rows.Next() {
		var v domain.ProfessionalView
		var city, bio, area sql.NullString
		var rate sql.NullFloat64
		if err := rows.Scan(&v.UserID, &v.FullName, &city,
			&v.BusinessName, &v.Category, &bio, &rate, &area,
			&v.RatingAvg, &v.RatingCount); err != nil {
			return nil, 0, err
		}
		v.City = nullStr(city)
		v.Bio = nullStr(bio)
		v.HourlyRate = nullF64(rate)
		v.ServiceArea = nullStr(area)
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func professionalFilters(q domain.ProfessionalsQuery) (string, []any) {
	var conds []string
	var args []any
	if q.Category != nil {
		conds = append(conds, "p.category = ?")
		args = append(args, *q.Category)
	}
	if q.City != nil {
		conds = append(conds, "u.city = ?")
		args = append(args, *q.City)
	}
	if q.MinRating != nil {
		conds = append(conds, "p.rating_avg >= ?")
		args = append(args, *q.MinRating)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// isDuplicate reports MySQL error 1062 (duplicate key).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
