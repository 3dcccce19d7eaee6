package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyduel/models"
)

// CreateUniversity handles POST /universities.
func (h *Handler) CreateUniversity(c *gin.Context) {
	var request struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	id, err := h.directory.CreateUniversity(c.Request.Context(), request.Name, request.Location)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "University created"})
}

// ListUniversities handles GET /universities.
func (h *Handler) ListUniversities(c *gin.Context) {
	universities, err := h.directory.ListUniversities(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, universities)
}

// CreateCourse handles POST /courses.
func (h *Handler) CreateCourse(c *gin.Context) {
	var request struct {
		UniversityID string `json:"universityId"`
		Name         string `json:"name"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.UniversityID == "" || request.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "universityId and name are required"})
		return
	}

	id, err := h.directory.CreateCourse(c.Request.Context(), request.UniversityID, request.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Course created"})
}

// ListCourses handles GET /courses.
func (h *Handler) ListCourses(c *gin.Context) {
	universityID := c.Query("universityId")
	if universityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "universityId is required"})
		return
	}

	courses, err := h.directory.ListCourses(c.Request.Context(), universityID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(c *gin.Context) {
	var request struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Email == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	uid, err := h.directory.CreateUser(c.Request.Context(), request.Email, request.Password, request.DisplayName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uid": uid, "message": "User created successfully"})
}

// GetUser handles GET /users.
func (h *Handler) GetUser(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID (uid) is required"})
		return
	}

	user, err := h.directory.GetUser(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// JoinCourse handles POST /courses/join.
func (h *Handler) JoinCourse(c *gin.Context) {
	var request struct {
		UserID   string `json:"userId"`
		CourseID string `json:"courseId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.UserID == "" || request.CourseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and courseId are required"})
		return
	}

	classroomID, err := h.directory.JoinCourse(c.Request.Context(), request.UserID, request.CourseID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classroomId": classroomID, "message": "User joined the course"})
}

// GetClassroom handles GET /classroom.
func (h *Handler) GetClassroom(c *gin.Context) {
	classroomID := c.Query("classroomId")
	if classroomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classroomId is required"})
		return
	}

	classroom, err := h.directory.GetClassroom(c.Request.Context(), classroomID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classroom)
}

// CreateQuestionSet handles POST /questions.
func (h *Handler) CreateQuestionSet(c *gin.Context) {
	var request struct {
		QuestionText    string          `json:"questionText"`
		Options         []models.Option `json:"options"`
		CorrectOptionID string          `json:"correctOptionId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	id, err := h.directory.CreateQuestionSet(c.Request.Context(), request.QuestionText, request.Options, request.CorrectOptionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Question set created successfully."})
}
