package models

import (
	"time"

	"github.com/google/uuid"
)

// JobDescription is immutable once created; analyses reference it by ID.
type JobDescription struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Slug        string    `gorm:"type:text;uniqueIndex" json:"slug"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	BuiltIn     bool      `gorm:"not null;default:false" json:"builtIn"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}

// BuiltInJobs is the catalog offered before any administrator adds jobs.
var BuiltInJobs = []JobDescription{
	{
		Slug:        "data-analyst",
		Title:       "Data Analyst",
		Description: "We are seeking a detail-oriented Data Analyst to join our team. The Data Analyst will be responsible for interpreting data, analyzing results using statistical techniques, and providing ongoing reports. The ideal candidate will have strong analytical skills, experience with data models, and the ability to turn data into actionable insights.",
	},
	{
		Slug:        "cyber-security-analyst",
		Title:       "Cyber Security Analyst",
		Description: "We are looking for a vigilant Cyber Security Analyst to protect our computer networks and systems. You will be responsible for monitoring, detecting, investigating, analyzing, and responding to security events. A strong understanding of network security, threat intelligence, and incident response is required.",
	},
	{
		Slug:        "web-developer",
		Title:       "Web Developer",
		Description: "We are hiring a passionate Web Developer to design and build user-friendly websites and web applications. Responsibilities include front-end development using HTML, CSS, JavaScript, and modern frameworks like React, as well as back-end integration. A keen eye for design and a commitment to creating a seamless user experience are essential.",
	},
	{
		Slug:        "backend-developer",
		Title:       "Backend Developer",
		Description: "We are seeking an experienced Backend Developer to build and maintain the server-side logic of our applications. You will be responsible for developing and managing databases, APIs, and server infrastructure. Proficiency in languages like Python, Java, or Node.js and experience with cloud platforms is required.",
	},
	{
		Slug:        "machine-learning-engineer",
		Title:       "Machine Learning Engineer",
		Description: "We are seeking a talented Machine Learning (ML) Engineer to join our innovative team. The ML Engineer will be responsible for designing, developing, and deploying machine learning models to solve complex business problems. The ideal candidate will have a solid foundation in computer science, mathematics, and statistics, along with hands-on experience in building and optimizing ML models.",
	},
	{
		Slug:        "ai-engineer",
		Title:       "AI Engineer",
		Description: "We are looking for a skilled and creative AI Engineer to join our forward-thinking team. The AI Engineer will be responsible for developing and implementing artificial intelligence solutions that drive business innovation. The ideal candidate will have a strong background in AI/ML, deep learning, natural language processing (NLP), and computer vision, as well as experience in building and deploying AI-powered applications.",
	},
	{
		Slug:        "computer-science-engineer",
		Title:       "Computer Science Engineer",
		Description: "We are hiring a motivated and skilled Computer Science Engineer to join our dynamic engineering team. The Computer Science Engineer will be responsible for designing, developing, and maintaining software applications and systems. The ideal candidate will have a strong understanding of computer science fundamentals, data structures, algorithms, and software development best practices.",
	},
}
