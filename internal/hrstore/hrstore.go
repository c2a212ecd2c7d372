// Package hrstore is the thin external-collaborator boundary (C10) the HR
// sampler's output is meant to satisfy: table DDL and the two analytical
// queries the original consumes the sample with. It never opens a live
// database connection itself — per spec §1/§6, standing up the database is
// out of functional scope — it only exposes the schema/query text and a
// minimal insertion helper for a caller that owns a *sql.DB.
//
// Grounded on original_source/cencosud/question_1/human_resources.py; table
// and column names/order preserved verbatim since they are the contract a
// real caller's queries depend on.
package hrstore

import (
	"context"
	"database/sql"

	"github.com/dgarridoa/elevator-dispatch/internal/hr"
)

// DDL statements, column order preserved from the original schema.
const (
	CreateTablePersonas = `CREATE TABLE personas(
  id INT,
  nombre VARCHAR(100),
  rut INT,
  dv CHAR(1),
  nacimiento DATE NOT NULL,
  defuncion DATE,
  PRIMARY KEY (id)
)`

	CreateTableConyuges = `CREATE TABLE conyuges(
  id INT,
  id_persona_1 INT,
  id_persona_2 INT,
  celebracion DATE NOT NULL,
  PRIMARY KEY (id),
  FOREIGN KEY (id_persona_1) REFERENCES personas(id),
  FOREIGN KEY (id_persona_2) REFERENCES personas(id)
)`

	CreateTableHijos = `CREATE TABLE hijos(
  id INT,
  id_padre INT,
  id_hijo INT,
  PRIMARY KEY (id),
  FOREIGN KEY (id_padre) REFERENCES personas(id),
  FOREIGN KEY (id_hijo) REFERENCES personas(id)
)`
)

// AvgChildrenPerMarriageQuery returns the average number of children per
// marriage, counting marriages with zero children as zero.
const AvgChildrenPerMarriageQuery = `
WITH
  first_parent AS (
    SELECT c.id, c.id_persona_1, c.id_persona_2, h.id_hijo
    FROM conyuges AS c
    INNER JOIN hijos AS h ON c.id_persona_1 = h.id_padre),
  second_parent AS (
    SELECT c.id, c.id_persona_1, c.id_persona_2, h.id_hijo
    FROM conyuges AS c
    INNER JOIN hijos AS h ON c.id_persona_2 = h.id_padre),
  marriages_and_children AS (
    SELECT fp.id, fp.id_hijo
    FROM first_parent AS fp
    INNER JOIN second_parent AS sp
      ON fp.id_persona_1 = sp.id_persona_1
     AND fp.id_persona_2 = sp.id_persona_2
     AND fp.id_hijo = sp.id_hijo),
  count_children_by_marriage AS (
    SELECT id, count(*) AS num_children
    FROM marriages_and_children
    GROUP BY id)
SELECT AVG(IFNULL(chbm.num_children, 0)) avg_per_marriage
FROM conyuges AS c
LEFT JOIN count_children_by_marriage AS chbm ON c.id = chbm.id
`

// PersonWithMaxGrandchildrenQuery returns the full personas row for the
// person with the most grandchildren.
const PersonWithMaxGrandchildrenQuery = `
WITH
  count_grandchildren_by_person AS (
    SELECT grandparents.id_padre, count(*) AS num_grandchildren
    FROM hijos AS grandparents
    INNER JOIN hijos AS parents ON grandparents.id_hijo = parents.id_padre
    GROUP BY grandparents.id_padre),
  person_with_max_number_grandchildren AS (
    SELECT id_padre
    FROM count_grandchildren_by_person
    WHERE num_grandchildren = (SELECT MAX(num_grandchildren) FROM count_grandchildren_by_person)
    LIMIT 1)
SELECT *
FROM personas
WHERE id = (SELECT id_padre FROM person_with_max_number_grandchildren)
`

// Insert truncates and repopulates the three tables from a sampled dataset,
// mirroring the original's truncate_db: delete children-first to respect the
// foreign keys, then insert parents-first.
func Insert(ctx context.Context, db *sql.DB, personas []hr.Persona, conyuges []hr.Conyuge, hijos []hr.Hijo) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM conyuges", "DELETE FROM hijos", "DELETE FROM personas"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	insertPersona, err := tx.PrepareContext(ctx,
		"INSERT INTO personas (id, nombre, rut, dv, nacimiento, defuncion) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertPersona.Close()
	for _, p := range personas {
		var death interface{}
		if p.Death != nil {
			death = *p.Death
		}
		if _, err := insertPersona.ExecContext(ctx, p.ID, p.Name, p.Rut, string(p.DV), p.Birth, death); err != nil {
			return err
		}
	}

	insertConyuge, err := tx.PrepareContext(ctx,
		"INSERT INTO conyuges (id, id_persona_1, id_persona_2, celebracion) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertConyuge.Close()
	for _, c := range conyuges {
		if _, err := insertConyuge.ExecContext(ctx, c.ID, c.Persona1ID, c.Persona2ID, c.Celebration); err != nil {
			return err
		}
	}

	insertHijo, err := tx.PrepareContext(ctx, "INSERT INTO hijos (id, id_padre, id_hijo) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertHijo.Close()
	for _, h := range hijos {
		if _, err := insertHijo.ExecContext(ctx, h.ID, h.ParentID, h.ChildID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
