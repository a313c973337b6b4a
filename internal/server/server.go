// Package server exposes the engine over HTTP/JSON. Each running game
// is an in-memory manager keyed by a generated id; the core stays
// single-threaded, so every command on a game holds that game's lock.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ebenmoss/sultanate/internal/content"
	"github.com/ebenmoss/sultanate/internal/errors"
	"github.com/ebenmoss/sultanate/internal/game"
	"github.com/ebenmoss/sultanate/internal/settle"
	"github.com/ebenmoss/sultanate/internal/storage"
)

// Server hosts running games and the save store.
type Server struct {
	catalog *content.Catalog
	store   storage.Store
	log     zerolog.Logger

	mu    sync.Mutex
	games map[string]*session

	now   func() time.Time
	newID func() string
}

type session struct {
	mu      sync.Mutex
	manager *game.Manager
}

// New creates a server over a validated catalog and a save store.
func New(catalog *content.Catalog, store storage.Store, log zerolog.Logger) *Server {
	return &Server{
		catalog: catalog,
		store:   store,
		log:     log,
		games:   make(map[string]*session),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.POST("/games", s.createGame)
	router.GET("/games/:id", s.getGame)
	router.POST("/games/:id/next-day", s.nextDay)
	router.POST("/games/:id/participate", s.participate)
	router.POST("/games/:id/equip", s.equip)
	router.POST("/games/:id/unequip", s.unequip)
	router.POST("/games/:id/think", s.think)
	router.POST("/games/:id/settlement/begin", s.beginSettlement)
	router.POST("/games/:id/narrative/advance", s.advanceNarrative)
	router.POST("/games/:id/choice", s.makeChoice)
	router.POST("/games/:id/settlement/execute", s.executeSettlement)
	router.POST("/games/:id/settlement/advance", s.advanceAfterSettlement)
	router.POST("/games/:id/rewind", s.rewind)
	router.POST("/games/:id/save", s.saveGame)
	router.POST("/games/:id/load", s.loadGame)
	router.GET("/saves", s.listSaves)
	router.DELETE("/saves/:id", s.deleteSave)

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// writeError renders a coded error as a JSON body with the mapped HTTP
// status.
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(code.HTTPStatus(), gin.H{"error": gin.H{
		"code":    string(code),
		"message": err.Error(),
	}})
}

func writeDenial(c *gin.Context, message string) {
	writeError(c, errors.New(errors.CodeInvalidRequest, message))
}

func (s *Server) session(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.games[id]
	return sess, ok
}

// withGame locates the game and runs fn under the game's lock.
func (s *Server) withGame(c *gin.Context, fn func(m *game.Manager)) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		writeError(c, errors.New(errors.CodeGameNotFound, "no such game"))
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.manager)
}

type createGameRequest struct {
	Difficulty string `json:"difficulty"`
	Seed       string `json:"seed"`
}

func (s *Server) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}

	id := s.newID()
	manager := game.NewManager(s.catalog, game.Options{
		Seed:     req.Seed,
		Observer: &logObserver{log: s.log, gameID: id},
	})
	if err := manager.StartNewGame(game.Difficulty(req.Difficulty)); err != nil {
		writeError(c, err)
		return
	}

	s.mu.Lock()
	s.games[id] = &session{manager: manager}
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"id": id, "game": manager.Snapshot()})
}

func (s *Server) getGame(c *gin.Context) {
	s.withGame(c, func(m *game.Manager) {
		c.JSON(http.StatusOK, m.Snapshot())
	})
}

func (s *Server) nextDay(c *gin.Context) {
	s.withGame(c, func(m *game.Manager) {
		report, err := m.NextDay()
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	})
}

type participateRequest struct {
	SceneID string   `json:"scene_id"`
	CardIDs []string `json:"card_ids"`
}

func (s *Server) participate(c *gin.Context) {
	var req participateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		if !m.Participate(req.SceneID, req.CardIDs) {
			writeDenial(c, "participation rejected")
			return
		}
		c.JSON(http.StatusOK, m.Snapshot())
	})
}

type equipRequest struct {
	CharacterID string `json:"character_id"`
	EquipmentID string `json:"equipment_id"`
}

func (s *Server) equip(c *gin.Context) {
	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		if !m.Equip(req.CharacterID, req.EquipmentID) {
			writeDenial(c, "equip rejected")
			return
		}
		c.JSON(http.StatusOK, m.Snapshot())
	})
}

func (s *Server) unequip(c *gin.Context) {
	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		if !m.Unequip(req.CharacterID, req.EquipmentID) {
			writeDenial(c, "unequip rejected")
			return
		}
		c.JSON(http.StatusOK, m.Snapshot())
	})
}

type thinkRequest struct {
	CardID string `json:"card_id"`
}

func (s *Server) think(c *gin.Context) {
	var req thinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		if !m.Think(req.CardID) {
			writeDenial(c, "think rejected")
			return
		}
		c.JSON(http.StatusOK, m.Snapshot())
	})
}

type sceneRequest struct {
	SceneID string `json:"scene_id"`
}

func (s *Server) beginSettlement(c *gin.Context) {
	var req sceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		if !m.BeginSettlement(req.SceneID) {
			writeDenial(c, "scene is not pending settlement")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func (s *Server) advanceNarrative(c *gin.Context) {
	s.withGame(c, func(m *game.Manager) {
		node := m.AdvanceNarrative()
		if node == nil {
			c.JSON(http.StatusOK, gin.H{"done": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"done": false, "node": node})
	})
}

type choiceRequest struct {
	Index int `json:"index"`
}

func (s *Server) makeChoice(c *gin.Context) {
	var req choiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		if !m.MakeChoice(req.Index) {
			writeDenial(c, "no pending choice for that index")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

type executeSettlementRequest struct {
	SceneID       string `json:"scene_id"`
	RerollIndices []int  `json:"reroll_indices"`
	GoldenDice    int    `json:"golden_dice"`
	ChoiceIndex   int    `json:"choice_index"`
}

func (s *Server) executeSettlement(c *gin.Context) {
	var req executeSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		result := m.ExecuteSettlement(req.SceneID, settle.Options{
			RerollIndices: req.RerollIndices,
			GoldenDice:    req.GoldenDice,
			ChoiceIndex:   req.ChoiceIndex,
		})
		if result == nil {
			writeDenial(c, "scene is not pending settlement")
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

type advanceAfterSettlementRequest struct {
	ResultKey string `json:"result_key"`
}

func (s *Server) advanceAfterSettlement(c *gin.Context) {
	var req advanceAfterSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		if !m.AdvanceAfterSettlement(req.ResultKey) {
			writeDenial(c, "no narrative to advance")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func (s *Server) rewind(c *gin.Context) {
	s.withGame(c, func(m *game.Manager) {
		if !m.Rewind() {
			writeDenial(c, "rewind unavailable")
			return
		}
		c.JSON(http.StatusOK, m.Snapshot())
	})
}

type saveRequest struct {
	SaveID string `json:"save_id"`
}

func (s *Server) saveGame(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		record := m.Serialize()
		record.ID = req.SaveID
		if record.ID == "" {
			record.ID = s.newID()
		}
		record.CreatedAt = s.now().UTC()
		if err := s.store.Put(c.Request.Context(), record); err != nil {
			writeError(c, errors.New(errors.CodeStorageFailure, err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"save_id": record.ID})
	})
}

func (s *Server) loadGame(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeDenial(c, "malformed request body")
		return
	}
	s.withGame(c, func(m *game.Manager) {
		record, err := s.store.Get(c.Request.Context(), req.SaveID)
		if err == storage.ErrNotFound {
			writeError(c, errors.New(errors.CodeNotFound, "no such save"))
			return
		}
		if err != nil {
			writeError(c, errors.New(errors.CodeStorageFailure, err.Error()))
			return
		}
		if err := m.Load(record); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, m.Snapshot())
	})
}

func (s *Server) listSaves(c *gin.Context) {
	ids, err := s.store.List(c.Request.Context())
	if err != nil {
		writeError(c, errors.New(errors.CodeStorageFailure, err.Error()))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"saves": ids})
}

func (s *Server) deleteSave(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, errors.New(errors.CodeStorageFailure, err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
