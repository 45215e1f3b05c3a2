package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query is the single entry point for record access. Every write runs in its own
// transaction; inside Transaction those become savepoints of the outer one.
type Query struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewQuery(db *gorm.DB) *Query {
	return &Query{
		db:     db,
		logger: log.With().Str("component", "query").Logger(),
	}
}

// Transaction runs fn against a Query bound to one database transaction. The transaction
// is committed when fn returns nil and rolled back otherwise.
func (q *Query) Transaction(ctx context.Context, fn func(q *Query) error) error {
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx, logger: q.logger})
	})
	return errs.NewDatabaseError("commit", "transaction", err)
}

// Execute performs op on the records of kind chosen by sel.
//
//   - OpSelect: by ID (exactly one record or NotFound), else by Filters and Search, else all.
//   - OpInsert: creates a record from sel.Data and returns it with its generated identity.
//   - OpUpdate: applies sel.Data to the single record resolved by ID or Filters.
//   - OpDelete: removes the record with ID, or every record matching Filters, with its children.
//   - OpNavigate: fills Prev and Next with the neighbouring ids of sel.ID.
func (q *Query) Execute(ctx context.Context, kind Kind, op Operation, sel Selector) (Result, error) {
	e, ok := entities[kind]
	if !ok {
		return Result{}, errs.InvalidInput(fmt.Sprintf("unknown record kind %d", int(kind)))
	}
	if sel.ID > MaxID {
		return Result{}, errs.NewInvalidIDError("id")
	}

	var (
		res Result
		err error
	)
	switch op {
	case OpSelect:
		res, err = q.selectRecords(ctx, e, sel)
	case OpInsert:
		res, err = q.insert(ctx, e, sel)
	case OpUpdate:
		res, err = q.update(ctx, e, sel)
	case OpDelete:
		res, err = q.delete(ctx, e, sel)
	case OpNavigate:
		res, err = q.navigate(ctx, e, sel)
	default:
		err = errs.InvalidInput(fmt.Sprintf("unknown operation %d", int(op)))
	}
	if err != nil {
		err = errs.NewDatabaseError(op.String(), kind.String(), err)
		q.logger.Debug().Err(err).Str("kind", kind.String()).Str("op", op.String()).Msg("query failed")
		return Result{}, err
	}
	return res, nil
}

func (q *Query) selectRecords(ctx context.Context, e *entity, sel Selector) (Result, error) {
	tx := q.db.WithContext(ctx)
	if sel.ID != 0 {
		scope, err := e.byID(tx, sel.ID)
		if err != nil {
			return Result{}, err
		}
		scope, err = e.where(scope, sel.Filters)
		if err != nil {
			return Result{}, err
		}
		rec := e.model()
		if err := scope.Take(rec).Error; err != nil {
			return Result{}, err
		}
		return Result{Records: []any{rec}}, nil
	}

	scope, err := e.where(tx, sel.Filters)
	if err != nil {
		return Result{}, err
	}
	scope, err = e.search(scope, sel.Search)
	if err != nil {
		return Result{}, err
	}
	rows, err := e.find(e.ordered(scope))
	if err != nil {
		return Result{}, err
	}
	return Result{Records: rows}, nil
}

func (q *Query) insert(ctx context.Context, e *entity, sel Selector) (Result, error) {
	if len(sel.Data) == 0 {
		return Result{}, errs.InvalidInput(fmt.Sprintf("no data given for the new %s", e.kind))
	}
	rec := e.model()
	if err := e.apply(rec, sel.Data, false); err != nil {
		return Result{}, err
	}
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(rec).Error
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Records: []any{rec}}, nil
}

func (q *Query) update(ctx context.Context, e *entity, sel Selector) (Result, error) {
	if len(sel.Data) == 0 {
		return Result{}, errs.InvalidInput(fmt.Sprintf("no data given to update the %s", e.kind))
	}
	if sel.ID == 0 && len(sel.Filters) == 0 {
		return Result{}, errs.InvalidInput(fmt.Sprintf("updating a %s needs an id or filters", e.kind))
	}

	var target any
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := q.resolveOne(tx, e, sel)
		if err != nil {
			return err
		}
		if err := e.apply(rec, sel.Data, true); err != nil {
			return err
		}
		values := make(map[string]any, len(sel.Data))
		for name := range sel.Data {
			f := e.fields[name]
			values[f.column] = f.get(rec)
		}
		if err := tx.Model(rec).Omit(clause.Associations).Updates(values).Error; err != nil {
			return err
		}
		target = rec
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Records: []any{target}}, nil
}

// resolveOne loads the single record sel points at.
func (q *Query) resolveOne(tx *gorm.DB, e *entity, sel Selector) (any, error) {
	scope := tx
	if sel.ID != 0 {
		var err error
		if scope, err = e.byID(scope, sel.ID); err != nil {
			return nil, err
		}
	}
	scope, err := e.where(scope, sel.Filters)
	if err != nil {
		return nil, err
	}
	rows, err := e.find(e.ordered(scope).Limit(2))
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, errs.NotFound(e.kind.String())
	case 1:
		return rows[0], nil
	}
	return nil, errs.InvalidInput(fmt.Sprintf("more than one %s matches the filters", e.kind))
}

func (q *Query) delete(ctx context.Context, e *entity, sel Selector) (Result, error) {
	if sel.ID == 0 && len(sel.Filters) == 0 {
		return Result{}, errs.InvalidInput(fmt.Sprintf("deleting a %s needs an id or filters", e.kind))
	}

	var affected int64
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx
		if sel.ID != 0 {
			var err error
			if scope, err = e.byID(scope, sel.ID); err != nil {
				return err
			}
		}
		scope, err := e.where(scope, sel.Filters)
		if err != nil {
			return err
		}

		if len(e.cascades) == 0 {
			res := scope.Delete(e.model())
			if res.Error != nil {
				return res.Error
			}
			if sel.ID != 0 && res.RowsAffected == 0 {
				return errs.NotFound(e.kind.String())
			}
			affected = res.RowsAffected
			return nil
		}

		var ids []uint
		if err := scope.Model(e.model()).Pluck(e.idColumn, &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			if sel.ID != 0 {
				return errs.NotFound(e.kind.String())
			}
			return nil
		}
		for _, c := range e.cascades {
			child := entities[c.kind]
			if err := tx.Where(c.column+" IN ?", ids).Delete(child.model()).Error; err != nil {
				return err
			}
		}
		res := tx.Where(e.idColumn+" IN ?", ids).Delete(e.model())
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Affected: affected}, nil
}

func (q *Query) navigate(ctx context.Context, e *entity, sel Selector) (Result, error) {
	if e.idColumn == "" {
		return Result{}, errs.InvalidInput(fmt.Sprintf("%s records have no single id to navigate by", e.kind))
	}
	if sel.ID == 0 {
		return Result{}, errs.InvalidInput("navigation needs an id")
	}

	var prev, next sql.NullInt64
	err := q.db.WithContext(ctx).Model(e.model()).
		Select("MAX("+e.idColumn+")").
		Where(e.idColumn+" < ?", sel.ID).
		Row().Scan(&prev)
	if err != nil {
		return Result{}, err
	}
	err = q.db.WithContext(ctx).Model(e.model()).
		Select("MIN("+e.idColumn+")").
		Where(e.idColumn+" > ?", sel.ID).
		Row().Scan(&next)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if prev.Valid {
		res.Prev = uint(prev.Int64)
	}
	if next.Valid {
		res.Next = uint(next.Int64)
	}
	return res, nil
}

func (e *entity) byID(tx *gorm.DB, id uint64) (*gorm.DB, error) {
	if e.idColumn == "" {
		return nil, errs.InvalidInput(fmt.Sprintf("%s records are not addressed by a single id", e.kind))
	}
	return tx.Where(e.idColumn+" = ?", id), nil
}

// where adds one condition per filter, combined with AND. Text columns compare
// case-insensitively, slices match any element and nil matches NULL.
func (e *entity) where(tx *gorm.DB, filters Fields) (*gorm.DB, error) {
	for _, name := range sortedNames(filters) {
		f, err := e.field(name)
		if err != nil {
			return nil, err
		}
		value := filters[name]

		if list, ok := asList(value); ok {
			if len(list) == 0 {
				tx = tx.Where("1 = 0")
				continue
			}
			values := make([]any, 0, len(list))
			for _, item := range list {
				v, err := e.convert(name, f, item)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
			tx = tx.Where(f.compared(tx)+" IN ?", values)
			continue
		}

		v, err := e.convert(name, f, value)
		if err != nil {
			return nil, err
		}
		if v == nil {
			tx = tx.Where(f.column + " IS NULL")
			continue
		}
		tx = tx.Where(f.compared(tx)+" = ?", v)
	}
	return tx, nil
}

// search adds a case-insensitive substring condition per text field.
func (e *entity) search(tx *gorm.DB, search Fields) (*gorm.DB, error) {
	for _, name := range sortedNames(search) {
		f, err := e.field(name)
		if err != nil {
			return nil, err
		}
		if !f.text {
			return nil, errs.NewInvalidFieldError(name, fmt.Sprintf("%s cannot be searched", name))
		}
		s, err := toString(search[name])
		if err != nil {
			return nil, errs.NewInvalidFieldError(name, err.Error())
		}
		pattern := "%" + likeEscaper.Replace(foldText(s)) + "%"
		tx = tx.Where(foldColumn(tx, f.column)+" LIKE ? ESCAPE '\\'", pattern)
	}
	return tx, nil
}

func (e *entity) ordered(tx *gorm.DB) *gorm.DB {
	for _, column := range e.order {
		tx = tx.Order(column)
	}
	return tx
}

// apply copies data onto rec through the accessor table.
func (e *entity) apply(rec any, data Fields, updating bool) error {
	for _, name := range sortedNames(data) {
		f, err := e.field(name)
		if err != nil {
			return err
		}
		if updating && f.key {
			return errs.NewInvalidFieldError(name, fmt.Sprintf("%s cannot be changed", name))
		}
		v, err := f.conv(data[name])
		if err != nil {
			return errs.NewInvalidFieldError(name, err.Error())
		}
		f.set(rec, v)
	}
	return nil
}

func (e *entity) field(name string) (field, error) {
	f, ok := e.fields[name]
	if !ok {
		return field{}, errs.NewInvalidFieldError(name, fmt.Sprintf("%s has no field %s", e.kind, name))
	}
	return f, nil
}

func (e *entity) convert(name string, f field, value any) (any, error) {
	v, err := f.conv(value)
	if err != nil {
		return nil, errs.NewInvalidFieldError(name, err.Error())
	}
	if s, ok := v.(string); ok && f.text {
		return foldText(s), nil
	}
	return v, nil
}

// compared is the column expression used for equality.
func (f field) compared(tx *gorm.DB) string {
	if f.text {
		return foldColumn(tx, f.column)
	}
	return f.column
}
